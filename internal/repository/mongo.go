package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/otel"
	"github.com/Alturino/pos/sale/pkg/request"
	"github.com/Alturino/pos/sale/pkg/response"
)

type lineDocument struct {
	ID        string               `bson:"id"`
	Name      string               `bson:"name"`
	UnitPrice primitive.Decimal128 `bson:"unitPrice"`
	Quantity  int                  `bson:"quantity"`
}

type transactionDocument struct {
	CreatedAt   time.Time            `bson:"createdAt"`
	Items       []lineDocument       `bson:"items"`
	TotalAmount primitive.Decimal128 `bson:"totalAmount"`
	ID          primitive.ObjectID   `bson:"_id"`
}

type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{collection: db.Collection(collection)}
}

func (s *MongoStore) CreateIndexes(c context.Context) error {
	_, err := s.collection.Indexes().CreateOne(c, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed creating createdAt index with error=%w", err)
	}
	return nil
}

// InsertTransaction upserts on a fresh id in one round trip so that createdAt comes from the server
// clock through $currentDate and the stored document is returned by the same call.
func (s *MongoStore) InsertTransaction(c context.Context, sale request.SubmitSale) (response.Transaction, error) {
	c, span := otel.Tracer.Start(c, "MongoStore InsertTransaction")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MongoStore InsertTransaction").
		Int(log.KeyCartLinesCount, len(sale.Items)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "building transaction document").Logger()
	logger.Trace().Msg("building transaction document")
	items, err := newLineDocuments(sale.Items)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}
	total, err := Decimal128FromDecimal(sale.TotalAmount)
	if err != nil {
		err = fmt.Errorf("failed converting totalAmount with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}
	id := primitive.NewObjectID()
	logger = logger.With().Str(log.KeyTransactionID, id.Hex()).Logger()
	logger.Trace().Msg("built transaction document")

	logger = logger.With().Str(log.KeyProcess, "inserting transaction").Logger()
	logger.Info().Msg("inserting transaction")
	doc := transactionDocument{}
	err = s.collection.FindOneAndUpdate(
		c,
		bson.M{"_id": id},
		bson.M{
			"$setOnInsert": bson.M{"items": items, "totalAmount": total},
			"$currentDate": bson.M{"createdAt": bson.M{"$type": "date"}},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		err = fmt.Errorf("failed inserting transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Transaction{}, err
	}
	span.SetAttributes(attribute.String(log.KeyTransactionID, id.Hex()))
	logger.Info().Time("createdAt", doc.CreatedAt).Msg("inserted transaction")

	return doc.Response()
}

func (s *MongoStore) FindTransactionsByCreatedAt(c context.Context, r CreatedAtRange) ([]response.Transaction, error) {
	c, span := otel.Tracer.Start(c, "MongoStore FindTransactionsByCreatedAt")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "MongoStore FindTransactionsByCreatedAt").
		Time(log.KeyRangeStart, r.Start).
		Time(log.KeyRangeEnd, r.End).
		Str(log.KeyProcess, "finding transactions by createdAt").
		Logger()

	logger.Info().Msg("finding transactions by createdAt")
	cursor, err := s.collection.Find(
		c,
		bson.M{"createdAt": bson.M{"$gte": r.Start, "$lte": r.End}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		err = fmt.Errorf("failed finding transactions by createdAt with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer cursor.Close(c)

	docs := []transactionDocument{}
	if err = cursor.All(c, &docs); err != nil {
		err = fmt.Errorf("failed decoding transactions with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	trxs := make([]response.Transaction, 0, len(docs))
	for _, doc := range docs {
		trx, err := doc.Response()
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
