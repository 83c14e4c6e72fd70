package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/otel"
	"github.com/Alturino/pos/sale/pkg/request"
	"github.com/Alturino/pos/sale/pkg/response"
)

type PostgresStore struct {
	queries *Queries
}

func NewPostgresStore(queries *Queries) *PostgresStore {
	return &PostgresStore{queries: queries}
}

func (s *PostgresStore) InsertTransaction(c context.Context, sale request.SubmitSale) (response.Transaction, error) {
	c, span := otel.Tracer.Start(c, "PostgresStore InsertTransaction")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PostgresStore InsertTransaction").
		Int(log.KeyCartLinesCount, len(sale.Items)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "marshaling items").Logger()
	logger.Trace().Msg("marshaling items")
	items, err := json.Marshal(sale.Items)
	if err != nil {
		err = fmt.Errorf("failed marshaling items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}
	logger.Trace().Msg("marshaled items")

	logger = logger.With().Str(log.KeyProcess, "inserting transaction").Logger()
	logger.Info().Msg("inserting transaction")
	trx, err := s.queries.InsertTransaction(c, InsertTransactionParams{
		Items:       items,
		TotalAmount: NumericFromDecimal(sale.TotalAmount),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}
	span.SetAttributes(attribute.String(log.KeyTransactionID, trx.ID.String()))
	logger.Info().Str(log.KeyTransactionID, trx.ID.String()).Msg("inserted transaction")

	return trx.Response()
}

func (s *PostgresStore) FindTransactionsByCreatedAt(c context.Context, r CreatedAtRange) ([]response.Transaction, error) {
	c, span := otel.Tracer.Start(c, "PostgresStore FindTransactionsByCreatedAt")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "PostgresStore FindTransactionsByCreatedAt").
		Time(log.KeyRangeStart, r.Start).
		Time(log.KeyRangeEnd, r.End).
		Str(log.KeyProcess, "finding transactions by createdAt").
		Logger()

	logger.Info().Msg("finding transactions by createdAt")
	rows, err := s.queries.FindTransactionsByCreatedAt(c, FindTransactionsByCreatedAtParams{
		Start: pgtype.Timestamptz{Time: r.Start, Valid: true},
		EndAt: pgtype.Timestamptz{Time: r.End, Valid: true},
	})
	if err != nil {
		err = fmt.Errorf("failed finding transactions by createdAt with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	trxs := make([]response.Transaction, 0, len(rows))
	for _, row := range rows {
		trx, err := row.Response()
		if err != nil {
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		trxs = append(trxs, trx)
	}
	logger.Info().Int(log.KeyTransactionsCount, len(trxs)).Msg("found transactions by createdAt")

	return trxs, nil
}
