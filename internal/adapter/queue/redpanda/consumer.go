package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/hireflow/candidate-assessor/internal/adapter/observability"
	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/usecase"
)

// ScoringHandler processes one scoring task. Implemented by
// usecase.AssessmentService; declared as an interface for testing.
type ScoringHandler interface {
	ProcessScoring(ctx domain.Context, payload domain.ScoringTaskPayload) error
}

var _ ScoringHandler = usecase.AssessmentService{}

// Consumer wraps a transactional Kafka consumer group session and feeds
// scoring tasks to the assessment handler.
type Consumer struct {
	session     *kgo.GroupTransactSession
	handler     ScoringHandler
	groupID     string
	topic       string
	concurrency int
}

// NewConsumer constructs a Consumer with exactly-once semantics.
func NewConsumer(brokers []string, groupID string, handler ScoringHandler, concurrency int) (*Consumer, error) {
	return NewConsumerWithTopic(brokers, groupID, "candidate-assessor-consumer", handler, concurrency, TopicScoring)
}

// NewConsumerWithTopic constructs a Consumer on a custom topic so tests can
// isolate themselves.
func NewConsumerWithTopic(brokers []string, groupID, transactionalID string, handler ScoringHandler, concurrency int, topic string) (*Consumer, error) {
	slog.Info("creating redpanda consumer",
		slog.Any("brokers", brokers),
		slog.String("group_id", groupID),
		slog.String("transactional_id", transactionalID))

	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("missing required group ID")
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	tempClient, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("temp client: %w", err)
	}
	defer tempClient.Close()
	if err := createTopicIfNotExists(context.Background(), tempClient, topic, 1, 1); err != nil {
		slog.Warn("failed to create topic, it may already exist",
			slog.String("topic", topic), slog.Any("error", err))
	}

	kotelTracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	kotelService := kotel.NewKotel(kotel.WithTracer(kotelTracer))

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.RequireStableFetchOffsets(),
		kgo.WithHooks(kotelService.Hooks()...),
		kgo.DialTimeout(10 * time.Second),
		kgo.SessionTimeout(30 * time.Second),
		kgo.HeartbeatInterval(3 * time.Second),
		kgo.FetchMaxWait(5 * time.Second),
	}
	session, err := kgo.NewGroupTransactSession(opts...)
	if err != nil {
		return nil, fmt.Errorf("redpanda transactional session: %w", err)
	}

	return &Consumer{
		session:     session,
		handler:     handler,
		groupID:     groupID,
		topic:       topic,
		concurrency: concurrency,
	}, nil
}

// Start consumes until the context is cancelled. Each poll runs inside a
// group transaction: records are processed, then the offsets commit or the
// transaction aborts as a unit.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("starting redpanda consumer",
		slog.String("group_id", c.groupID),
		slog.String("topic", c.topic),
		slog.Int("concurrency", c.concurrency))

	sem := make(chan struct{}, c.concurrency)
	for {
		if ctx.Err() != nil {
			slog.Info("redpanda consumer shutting down")
			return ctx.Err()
		}

		fetches := c.session.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return fmt.Errorf("redpanda client closed")
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				if errors.Is(fe.Err, context.Canceled) {
					return ctx.Err()
				}
				slog.Error("fetch error",
					slog.String("topic", fe.Topic),
					slog.Any("error", fe.Err))
			}
			continue
		}
		if fetches.Empty() {
			continue
		}

		if err := c.session.Begin(); err != nil {
			slog.Error("begin transaction failed", slog.Any("error", err))
			continue
		}

		var records []*kgo.Record
		fetches.EachRecord(func(r *kgo.Record) { records = append(records, r) })

		for _, record := range records {
			sem <- struct{}{}
			record := record
			go func() {
				defer func() { <-sem }()
				c.processRecord(ctx, record)
			}()
		}
		for i := 0; i < cap(sem); i++ {
			sem <- struct{}{}
		}
		for i := 0; i < cap(sem); i++ {
			<-sem
		}

		committed, err := c.session.End(ctx, kgo.TryCommit)
		if err != nil || !committed {
			slog.Error("transaction commit failed",
				slog.Bool("committed", committed),
				slog.Any("error", err))
		}
	}
}

// processRecord decodes and handles one scoring task. Malformed payloads
// are logged and dropped; retrying cannot fix them.
func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) {
	observability.StartProcessingTask("scoring")

	var payload domain.ScoringTaskPayload
	if err := json.Unmarshal(record.Value, &payload); err != nil {
		slog.Error("malformed scoring payload, dropping",
			slog.String("topic", record.Topic),
			slog.Int64("offset", record.Offset),
			slog.Any("error", err))
		observability.FailTask("scoring")
		return
	}

	slog.Info("processing scoring task",
		slog.String("session_id", payload.SessionID),
		slog.String("candidate_id", payload.CandidateID))

	if err := c.handler.ProcessScoring(ctx, payload); err != nil {
		slog.Error("scoring task failed",
			slog.String("session_id", payload.SessionID),
			slog.Any("error", err))
		observability.FailTask("scoring")
		return
	}
	observability.CompleteTask("scoring")
}

// Close closes the underlying session.
func (c *Consumer) Close() {
	if c.session != nil {
		c.session.Close()
	}
}
