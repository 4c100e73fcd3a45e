package interview

import (
	"fmt"
	"strings"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// Generic phrasings used when the profile lacks the data a template needs.
const (
	fallbackSkills   = "various technologies"
	fallbackSkill    = "technical skills"
	fallbackEmployer = "your current company"
)

// PromptFor renders the templated question for a stage from profile data,
// falling back to generic phrasing when skills or employer are missing.
func PromptFor(stage domain.Stage, profile domain.CandidateProfile) string {
	switch stage {
	case domain.StageIntroduction:
		return fmt.Sprintf(
			"Thanks for joining this interview! I see you have experience with %s. Could you tell me more about your most recent role at %s?",
			leadingSkills(profile, 3), recentEmployer(profile))
	case domain.StageSkillsDeepDive:
		return fmt.Sprintf(
			"That's interesting! I noticed %s on your resume. Can you share a specific project where you applied these skills and what was the outcome?",
			firstSkill(profile))
	case domain.StageChallenge:
		return "Thanks for sharing that. Let's talk about problem-solving: Can you describe a challenging technical issue you faced and how you resolved it?"
	case domain.StageCollaboration:
		return "Great example! Now I'd like to understand your collaboration style. Can you tell me about a time when you had to work with a difficult team member or stakeholder?"
	default:
		return "Thank you for all your detailed responses! I have enough information to complete your assessment. Your interview responses show good communication skills and technical depth. Is there anything else you'd like to add about your experiences?"
	}
}

// leadingSkills joins up to n extracted skill display names, skipping the
// extraction placeholder.
func leadingSkills(p domain.CandidateProfile, n int) string {
	names := make([]string, 0, n)
	for _, s := range p.Skills {
		if s.Canonical == "" {
			continue
		}
		names = append(names, s.Display)
		if len(names) == n {
			break
		}
	}
	if len(names) == 0 {
		return fallbackSkills
	}
	return strings.Join(names, ", ")
}

func firstSkill(p domain.CandidateProfile) string {
	for _, s := range p.Skills {
		if s.Canonical != "" {
			return s.Display
		}
	}
	return fallbackSkill
}

func recentEmployer(p domain.CandidateProfile) string {
	if len(p.Experience) == 0 {
		return fallbackEmployer
	}
	company := p.Experience[0].Company
	if company == "" || company == domain.CompanyNotExtracted {
		return fallbackEmployer
	}
	return company
}
