package infra

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/repository"
)

type CloseFunc func(context.Context) error

// NewTransactionStore opens the backend named by store.driver and wraps it with a circuit breaker.
func NewTransactionStore(c context.Context, cfg *config.Config) (repository.TransactionStore, CloseFunc, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewTransactionStore").
		Str(log.KeyStoreDriver, cfg.Store.Driver).
		Logger()
	c = logger.WithContext(c)

	var (
		store   repository.TransactionStore
		closeFn CloseFunc
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := NewDatabaseClient(c, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err = Migrate(c, pool, cfg.Database); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store = repository.NewPostgresStore(repository.New(pool))
		closeFn = func(context.Context) error {
			pool.Close()
			return nil
		}
	case config.StoreDriverMongo:
		client, err := NewMongoClient(c, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		mongoStore := repository.NewMongoStore(client.Database(cfg.Mongo.Database), cfg.Mongo.Collection)
		if err = mongoStore.CreateIndexes(c); err != nil {
			_ = client.Disconnect(c)
			logger.Error().Err(err).Msg(err.Error())
			return nil, nil, err
		}
		store = mongoStore
		closeFn = client.Disconnect
	default:
		err := fmt.Errorf("unknown store driver=%s", cfg.Store.Driver)
		logger.Error().Err(err).Msg(err.Error())
		return nil, nil, err
	}
	logger.Info().Msg("initialized transaction store")

	return repository.NewBreakerStore(c, store, cfg.Store), closeFn, nil
}
