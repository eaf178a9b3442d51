package kafka

import (
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"github.com/melodix/billing/internal/config"
)

// Publisher sends domain events to Kafka. One topic per event name under a
// configurable prefix, e.g. billing.SubscriptionPurchased.
type Publisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

// NewPublisher creates a synchronous Kafka producer. Synchronous because the
// outbox processor must see a delivery error to record the failure; an async
// producer would ack before the broker did.
func NewPublisher(cfg *config.KafkaConfig) (*Publisher, error) {
	producerConfig := sarama.NewConfig()
	producerConfig.Producer.RequiredAcks = sarama.WaitForAll
	producerConfig.Producer.Retry.Max = 3
	producerConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, producerConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Publisher{
		producer:    producer,
		topicPrefix: cfg.TopicPrefix,
	}, nil
}

// Publish delivers payload to the topic derived from routingKey.
func (p *Publisher) Publish(routingKey string, payload []byte) error {
	topic := routingKey
	if p.topicPrefix != "" {
		topic = p.topicPrefix + "." + routingKey
	}
	// Kafka topic names cannot contain ':'.
	topic = strings.ReplaceAll(topic, ":", ".")

	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close shuts the underlying producer down.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
