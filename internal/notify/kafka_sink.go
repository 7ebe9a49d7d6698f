package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"yojanamitra/pkg/requestcontext"
)

// Producer is the subset of *kgo.Client the Kafka sink needs.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// KafkaSink publishes notifications to a topic keyed by session, so one
// session's notifications stay ordered within a partition.
type KafkaSink struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

type kafkaMessage struct {
	SessionID   string   `json:"session_id"`
	RequestID   string   `json:"request_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	At          string   `json:"at"`
}

func NewKafkaSink(producer Producer, topic string, logger *slog.Logger) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic, logger: logger}
}

func (s *KafkaSink) Notify(ctx context.Context, sessionID string, n Notification) {
	at := n.At
	if at.IsZero() {
		at = requestcontext.Now(ctx)
	}
	payload, err := json.Marshal(kafkaMessage{
		SessionID:   sessionID,
		RequestID:   requestcontext.RequestID(ctx),
		Title:       n.Title,
		Description: n.Description,
		Severity:    n.Severity,
		At:          at.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode notification", "error", err)
		return
	}

	record := &kgo.Record{Topic: s.topic, Key: []byte(sessionID), Value: payload}
	// Delivery completes after the response is written.
	s.producer.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			s.logger.Warn("notification publish failed",
				"topic", r.Topic,
				"session_id", sessionID,
				"error", err,
			)
		}
	})
}
