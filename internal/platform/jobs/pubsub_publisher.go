package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"

	"github.com/docfield/api/internal/platform/textutil"
	"github.com/docfield/api/internal/services"
)

// PubSubOrderReceivedPublisher announces finalized orders on a Pub/Sub topic.
type PubSubOrderReceivedPublisher struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

// NewPubSubOrderReceivedPublisher constructs a Pub/Sub backed order notifier.
func NewPubSubOrderReceivedPublisher(topic *pubsub.Topic) (*PubSubOrderReceivedPublisher, error) {
	if topic == nil {
		return nil, errors.New("pubsub order publisher: topic is required")
	}
	return &PubSubOrderReceivedPublisher{
		topic:   topic,
		marshal: json.Marshal,
	}, nil
}

// PublishOrderReceived enqueues an order-received message on the configured topic.
func (p *PubSubOrderReceivedPublisher) PublishOrderReceived(ctx context.Context, message services.OrderReceivedMessage) (string, error) {
	if p == nil || p.topic == nil {
		return "", errors.New("pubsub order publisher: not initialised")
	}

	data, err := p.marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal order received: %w", err)
	}

	attrs := textutil.NormalizeStringMap(map[string]string{
		"orderId":   message.OrderID,
		"orderUri":  message.OrderURI,
		"reference": message.Reference,
	})

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})

	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish order received: %w", err)
	}
	return id, nil
}
