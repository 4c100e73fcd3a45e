package extractor

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

var (
	vocabOnce sync.Once
	vocabList []string
	vocabErr  error
)

// DefaultVocabulary returns the embedded canonical skill vocabulary,
// lower-cased and deduplicated, preserving file order.
func DefaultVocabulary() ([]string, error) {
	vocabOnce.Do(func() {
		var doc struct {
			Skills []string `yaml:"skills"`
		}
		if err := yaml.Unmarshal(vocabularyYAML, &doc); err != nil {
			vocabErr = fmt.Errorf("op=extractor.vocabulary: %w", err)
			return
		}
		seen := make(map[string]struct{}, len(doc.Skills))
		out := make([]string, 0, len(doc.Skills))
		for _, s := range doc.Skills {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
		vocabList = out
	})
	return vocabList, vocabErr
}
