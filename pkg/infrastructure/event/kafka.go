package event

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"storefront/pkg/domain/service"
)

type KafkaDispatcher struct {
	writer *kafka.Writer
}

// ParseBrokers splits a comma separated broker list, skipping blanks.
func ParseBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func NewKafkaDispatcher(brokers []string, topic string) (*KafkaDispatcher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}, nil
}

func (d *KafkaDispatcher) Dispatch(event service.Event) error {
	now := time.Now()
	body, err := encode(event, now)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(RoutingKey(event.Type())),
		Value: body,
		Time:  now.UTC(),
	})
	return errors.Wrapf(err, "write %s", event.Type())
}

func (d *KafkaDispatcher) Close() error {
	return errors.Wrap(d.writer.Close(), "close kafka writer")
}
