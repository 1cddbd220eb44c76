package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per reminder, keyed by habit id. The
// push sender downstream fans each message out to its tokens.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer)
}

func newKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		now:    time.Now,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, reminders ...Reminder) error {
	if len(reminders) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(reminders))
	for _, r := range reminders {
		data, err := sonic.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal reminder: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(r.HabitID.String()),
			Value: data,
			Time:  p.now(),
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish reminders: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
