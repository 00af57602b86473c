package main

import (
	"context"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/service"
	"storefront/pkg/infrastructure/cache"
	"storefront/pkg/infrastructure/event"
	"storefront/pkg/infrastructure/payment"
	"storefront/pkg/infrastructure/storage"
	"storefront/pkg/infrastructure/transport"
)

type dependencies struct {
	db      *sqlx.DB
	closers []io.Closer

	catalog     service.CatalogService
	cart        service.CartService
	orders      service.OrderService
	adjustments service.AdjustmentService
	checkout    service.CheckoutService
}

func newDependencies(ctx context.Context, cfg *config) (*dependencies, error) {
	db, err := storage.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	deps := &dependencies{db: db, closers: []io.Closer{db}}

	if cfg.MigrateOnStart {
		if err := storage.Migrate(db); err != nil {
			deps.Close()
			return nil, err
		}
	}

	dispatcher, err := deps.dispatcher(cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}

	items, err := cache.NewItemRepository(storage.NewItemRepository(db), cfg.ItemCacheSize)
	if err != nil {
		deps.Close()
		return nil, err
	}
	orders := storage.NewOrderRepository(db)
	discounts := storage.NewDiscountRepository(db)
	taxes := storage.NewTaxRepository(db)
	gateway := payment.NewStripeGateway(cfg.credentials(), nil)

	deps.catalog = service.NewCatalogService(items, dispatcher)
	deps.cart = service.NewCartService(orders, items, discounts, dispatcher)
	deps.orders = service.NewOrderService(orders, taxes, dispatcher)
	deps.adjustments = service.NewAdjustmentService(discounts, taxes)
	deps.checkout = service.NewCheckoutService(items, orders, gateway)
	return deps, nil
}

// dispatcher always logs events and additionally publishes them to the
// configured broker.
func (d *dependencies) dispatcher(cfg *config) (service.EventDispatcher, error) {
	logDispatcher := event.NewLogDispatcher(nil)
	switch cfg.EventBroker {
	case "", "log":
		return logDispatcher, nil
	case "rabbitmq":
		rabbit, err := event.NewRabbitMQDispatcher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, rabbit)
		return event.MultiDispatcher{logDispatcher, rabbit}, nil
	case "kafka":
		kafka, err := event.NewKafkaDispatcher(event.ParseBrokers(cfg.KafkaBrokers), cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, kafka)
		return event.MultiDispatcher{logDispatcher, kafka}, nil
	default:
		return nil, errors.Errorf("unknown event broker %q", cfg.EventBroker)
	}
}

func (d *dependencies) services() transport.Services {
	return transport.Services{
		Catalog:  d.catalog,
		Cart:     d.cart,
		Orders:   d.orders,
		Checkout: d.checkout,
	}
}

// Close releases resources in reverse order of acquisition.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			log.WithError(err).Error("failed to close resource")
		}
	}
}
