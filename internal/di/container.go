package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/docfield/api/internal/platform/config"
	pfirestore "github.com/docfield/api/internal/platform/firestore"
	"github.com/docfield/api/internal/platform/jobs"
	"github.com/docfield/api/internal/repositories"
	firestoreRepo "github.com/docfield/api/internal/repositories/firestore"
	"github.com/docfield/api/internal/services"
)

const envPubSubEmulatorHost = "PUBSUB_EMULATOR_HOST"

// Services bundles the service-layer contracts that handlers rely upon.
type Services struct {
	Baskets   services.BasketService
	Checkouts services.CheckoutService
	Orders    services.OrderService
}

// Repositories holds the storage-layer contracts backing the services.
type Repositories struct {
	Baskets   repositories.BasketRepository
	Checkouts repositories.CheckoutRepository
	Orders    repositories.OrderRepository
}

// Container wires repositories, services, and messaging infrastructure for runtime use.
type Container struct {
	Config       config.Config
	Repositories Repositories
	Services     Services

	firestoreProvider *pfirestore.Provider
	pubsubClient      *pubsub.Client
	orderTopic        *pubsub.Topic
}

// NewContainer constructs the runtime dependencies from configuration.
func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := pfirestore.NewProvider(cfg.Firestore)

	basketRepo, err := firestoreRepo.NewBasketRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("build basket repository: %w", err)
	}
	checkoutRepo, err := firestoreRepo.NewCheckoutRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("build checkout repository: %w", err)
	}
	orderRepo, err := firestoreRepo.NewOrderRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("build order repository: %w", err)
	}

	if host := strings.TrimSpace(cfg.PubSub.EmulatorHost); host != "" && os.Getenv(envPubSubEmulatorHost) == "" {
		_ = os.Setenv(envPubSubEmulatorHost, host)
	}
	pubsubClient, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		closeProvider(provider)
		return nil, fmt.Errorf("build pubsub client: %w", err)
	}
	orderTopic := pubsubClient.Topic(cfg.PubSub.OrderReceivedTopic)

	publisher, err := jobs.NewPubSubOrderReceivedPublisher(orderTopic)
	if err != nil {
		closeProvider(provider)
		_ = pubsubClient.Close()
		return nil, fmt.Errorf("build order publisher: %w", err)
	}

	links := services.NewLinkBuilder(cfg.Links.BasePath)

	basketSvc, err := services.NewBasketService(services.BasketServiceDeps{
		Baskets: basketRepo,
		Links:   links,
		Clock:   time.Now,
		Logger:  serviceLogger(logger.Named("basket")),
	})
	if err != nil {
		closeProvider(provider)
		_ = pubsubClient.Close()
		return nil, fmt.Errorf("build basket service: %w", err)
	}

	checkoutSvc, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Baskets:   basketRepo,
		Checkouts: checkoutRepo,
		Links:     links,
		Clock:     time.Now,
		Logger:    serviceLogger(logger.Named("checkout")),
	})
	if err != nil {
		closeProvider(provider)
		_ = pubsubClient.Close()
		return nil, fmt.Errorf("build checkout service: %w", err)
	}

	orderSvc, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:    orderRepo,
		Checkouts: checkoutRepo,
		Publisher: publisher,
		Links:     links,
		Clock:     time.Now,
		Logger:    serviceLogger(logger.Named("order")),
	})
	if err != nil {
		closeProvider(provider)
		_ = pubsubClient.Close()
		return nil, fmt.Errorf("build order service: %w", err)
	}

	return &Container{
		Config: cfg,
		Repositories: Repositories{
			Baskets:   basketRepo,
			Checkouts: checkoutRepo,
			Orders:    orderRepo,
		},
		Services: Services{
			Baskets:   basketSvc,
			Checkouts: checkoutSvc,
			Orders:    orderSvc,
		},
		firestoreProvider: provider,
		pubsubClient:      pubsubClient,
		orderTopic:        orderTopic,
	}, nil
}

// ReadinessChecks returns probes for the downstream dependencies.
func (c *Container) ReadinessChecks() []func(ctx context.Context) error {
	if c == nil {
		return nil
	}

	checks := make([]func(ctx context.Context) error, 0, 2)
	if provider := c.firestoreProvider; provider != nil {
		checks = append(checks, func(ctx context.Context) error {
			client, err := provider.Client(ctx)
			if err != nil {
				return err
			}
			iter := client.Collections(ctx)
			if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
				return err
			}
			return nil
		})
	}
	if topic := c.orderTopic; topic != nil {
		checks = append(checks, func(ctx context.Context) error {
			exists, err := topic.Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("pubsub topic %s does not exist", topic.ID())
			}
			return nil
		})
	}
	return checks
}

// Close releases the messaging and storage clients held by the container.
func (c *Container) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.orderTopic != nil {
		c.orderTopic.Stop()
	}
	if c.pubsubClient != nil {
		if err := c.pubsubClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pubsub client: %w", err))
		}
	}
	if c.firestoreProvider != nil {
		if err := c.firestoreProvider.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close firestore provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

func closeProvider(provider *pfirestore.Provider) {
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = provider.Close(closeCtx)
}

func serviceLogger(logger *zap.Logger) func(ctx context.Context, event string, fields map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zFields := make([]zap.Field, 0, len(fields)+1)
		zFields = append(zFields, zap.String("event", event))
		for k, v := range fields {
			zFields = append(zFields, zap.Any(k, v))
		}
		logger.Info("service event", zFields...)
	}
}
