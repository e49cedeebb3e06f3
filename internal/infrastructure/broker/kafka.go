// Package broker publica los eventos de transición de órdenes en Kafka.
// Los eventos son informativos: una publicación fallida se registra y se
// descarta, nunca afecta el estado del stock.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Producer envuelve un kafka.Writer para publicar eventos serializados en JSON.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer construye el publicador sobre los brokers y topic configurados.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	return &Producer{writer: writer}
}

// PublishEvent serializa el evento y lo publica con la clave dada.
func (p *Producer) PublishEvent(ctx context.Context, key string, event any) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: raw,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar en kafka: %w", err)
	}
	log.Debug().Str("key", key).Str("topic", p.writer.Topic).Msg("evento publicado")
	return nil
}

// Close cierra el writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
