package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/internal/log"
)

func NewMongoClient(c context.Context, cfg config.Mongo) (*mongo.Client, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewMongoClient").
		Str("database", cfg.Database).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "connecting to mongodb").Logger()
	logger.Info().Msg("connecting to mongodb")
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(c, clientOpts)
	if err != nil {
		err = fmt.Errorf("failed connecting to mongodb with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	if err = client.Ping(c, nil); err != nil {
		_ = client.Disconnect(c)
		err = fmt.Errorf("failed pinging mongodb with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("connected to mongodb")

	return client, nil
}
