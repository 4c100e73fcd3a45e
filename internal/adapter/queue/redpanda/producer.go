// Package redpanda provides Redpanda/Kafka queue integration.
//
// It publishes scoring tasks when an interview completes and consumes them
// in the assessment worker, with transactional exactly-once delivery.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/hireflow/candidate-assessor/internal/adapter/observability"
	"github.com/hireflow/candidate-assessor/internal/domain"
)

// TopicScoring is the Kafka topic for interview scoring tasks.
const TopicScoring = "scoring-jobs"

// Producer wraps a transactional Kafka producer and implements domain.Queue.
type Producer struct {
	client *kgo.Client
	// Buffered channel serializing transactions across goroutines.
	transactionChan chan struct{}
}

// NewProducer constructs a Producer with exactly-once semantics.
func NewProducer(brokers []string) (*Producer, error) {
	return NewProducerWithTransactionalID(brokers, "candidate-assessor-producer")
}

// NewProducerWithTransactionalID constructs a Producer with a custom
// transactional ID so tests can avoid conflicts between producers.
func NewProducerWithTransactionalID(brokers []string, transactionalID string) (*Producer, error) {
	slog.Info("creating redpanda producer", slog.Any("brokers", brokers), slog.String("transactional_id", transactionalID))

	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1000000),
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		slog.Error("failed to create redpanda client", slog.Any("error", err))
		return nil, fmt.Errorf("redpanda client: %w", err)
	}

	if err := createTopicIfNotExists(context.Background(), client, TopicScoring, 1, 1); err != nil {
		slog.Warn("failed to create topic, it may already exist",
			slog.String("topic", TopicScoring),
			slog.Any("error", err))
	}

	return &Producer{
		client:          client,
		transactionChan: make(chan struct{}, 1),
	}, nil
}

// EnqueueScoring enqueues a scoring task with exactly-once semantics.
func (p *Producer) EnqueueScoring(ctx domain.Context, payload domain.ScoringTaskPayload) (string, error) {
	return p.EnqueueScoringToTopic(ctx, payload, TopicScoring)
}

// EnqueueScoringToTopic enqueues a scoring task to a specific topic so
// tests can use unique topics for isolation.
func (p *Producer) EnqueueScoringToTopic(ctx domain.Context, payload domain.ScoringTaskPayload, topic string) (string, error) {
	slog.Info("enqueueing scoring task",
		slog.String("session_id", payload.SessionID),
		slog.String("candidate_id", payload.CandidateID),
		slog.String("topic", topic))

	select {
	case p.transactionChan <- struct{}{}:
		defer func() { <-p.transactionChan }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if err := p.client.BeginTransaction(); err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("failed to abort transaction", slog.Any("error", abortErr))
		}
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	record := &kgo.Record{
		Topic: topic,
		// Session ID as key keeps per-session ordering.
		Key:   []byte(payload.SessionID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "session_id", Value: []byte(payload.SessionID)},
			{Key: "candidate_id", Value: []byte(payload.CandidateID)},
		},
	}

	e := kgo.AbortingFirstErrPromise(p.client)
	p.client.Produce(ctx, record, e.Promise())
	if err := e.Err(); err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("failed to abort transaction", slog.Any("error", abortErr))
		}
		return "", fmt.Errorf("produce: %w", err)
	}

	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	observability.EnqueueTask("scoring")
	slog.Info("redpanda enqueue successful",
		slog.String("topic", topic),
		slog.String("session_id", payload.SessionID))
	return payload.SessionID, nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
