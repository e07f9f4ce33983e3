package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/storage/memory"
	"github.com/vladislavdragonenkov/sales/internal/storage/postgres"
	"github.com/vladislavdragonenkov/sales/internal/storage/sqlite"
)

// Dependencies содержит хранилища приложения и функцию их закрытия.
type Dependencies struct {
	Products  domain.ProductRepository
	Customers domain.CustomerRepository
	Orders    domain.OrderRepository
	Returns   domain.ReturnRepository
	Logger    *log.Entry

	// Ping проверяет доступность хранилища; nil для memory backend.
	Ping func(ctx context.Context) error

	closeFn func() error
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d == nil || d.closeFn == nil {
		return nil
	}
	return d.closeFn()
}

// NewDependencies инициализирует хранилища согласно конфигурации.
func NewDependencies(ctx context.Context, cfg StorageConfig, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.Backend {
	case BackendMemory:
		logger.Info("using in-memory storage")
		return &Dependencies{
			Products:  memory.NewProductRepository(),
			Customers: memory.NewCustomerRepository(),
			Orders:    memory.NewOrderRepository(),
			Returns:   memory.NewReturnRepository(),
			Logger:    logger,
		}, nil

	case BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite storage: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure sqlite schema: %w", err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("using sqlite storage")
		return &Dependencies{
			Products:  sqlite.NewProductRepository(store),
			Customers: sqlite.NewCustomerRepository(store),
			Orders:    sqlite.NewOrderRepository(store),
			Returns:   sqlite.NewReturnRepository(store),
			Logger:    logger,
			Ping:      store.Ping,
			closeFn:   store.Close,
		}, nil

	case BackendPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("init postgres storage: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		logger.Info("using postgres storage")
		return &Dependencies{
			Products:  postgres.NewProductRepository(store),
			Customers: postgres.NewCustomerRepository(store),
			Orders:    postgres.NewOrderRepository(store),
			Returns:   postgres.NewReturnRepository(store),
			Logger:    logger,
			Ping:      store.Ping,
			closeFn:   store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
