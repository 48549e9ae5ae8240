package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/docfield/api/internal/services"
)

func TestPubSubOrderReceivedPublisherPublishesMessage(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()

	client, err := pubsub.NewClient(ctx, "test-project",
		option.WithEndpoint(srv.Addr),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		t.Fatalf("pubsub.NewClient: %v", err)
	}
	defer func() {
		_ = client.Close()
	}()

	topic, err := client.CreateTopic(ctx, "order-received")
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	publisher, err := NewPubSubOrderReceivedPublisher(topic)
	if err != nil {
		t.Fatalf("NewPubSubOrderReceivedPublisher: %v", err)
	}

	orderedAt := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	msg := services.OrderReceivedMessage{
		OrderID:   "chk_01HZXW3N9A3F1G2H3J4K5M6N7P",
		OrderURI:  "/api/v1/orders/chk_01HZXW3N9A3F1G2H3J4K5M6N7P",
		Reference: "ORD-123456-789012",
		OrderedAt: orderedAt,
	}

	if _, err := publisher.PublishOrderReceived(ctx, msg); err != nil {
		t.Fatalf("PublishOrderReceived: %v", err)
	}

	messages := srv.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}

	var payload services.OrderReceivedMessage
	if err := json.Unmarshal(messages[0].Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.OrderID != msg.OrderID || payload.OrderURI != msg.OrderURI {
		t.Fatalf("unexpected payload %#v", payload)
	}
	if attr := messages[0].Attributes["orderUri"]; attr != msg.OrderURI {
		t.Fatalf("expected order uri attribute, got %q", attr)
	}
}
