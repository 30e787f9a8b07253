// Package kafka publishes completed assessments to a Kafka topic for
// downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Publisher produces assessment messages to a Kafka topic.
// It implements analysis.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the assessments topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishAssessment serializes one assessment and writes it to the topic.
func (p *Publisher) PublishAssessment(ctx context.Context, assessment domain.Assessment) error {
	msg, err := serializeToMessage(assessment)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish assessment %s: %w", assessment.ID, err)
	}
	p.logger.Debug("assessment published",
		"id", assessment.ID,
		"risk_level", assessment.RiskLevel)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Assessment into a Kafka message keyed by
// its ID so re-analyses of the same address land on the same partition.
func serializeToMessage(assessment domain.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(assessment)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(assessment.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(assessment.RiskLevel)},
			{Key: "generated_at", Value: []byte(assessment.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
