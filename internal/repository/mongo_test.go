package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cartResponse "github.com/Alturino/pos/cart/pkg/response"
	"github.com/Alturino/pos/sale/pkg/request"
)

func setupMongo(t *testing.T) *MongoStore {
	t.Helper()
	c := context.Background()

	mongoContainer, err := mongodb.Run(c, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(c); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(c)
	require.NoError(t, err)

	client, err := mongo.Connect(c, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(c) })

	store := NewMongoStore(client.Database("pos"), "transactions")
	require.NoError(t, store.CreateIndexes(c))
	return store
}

func insertDocumentAt(t *testing.T, store *MongoStore, total string, createdAt time.Time) {
	t.Helper()
	amount, err := primitive.ParseDecimal128(total)
	require.NoError(t, err)
	_, err = store.collection.InsertOne(context.Background(), transactionDocument{
		ID:          primitive.NewObjectID(),
		Items:       []lineDocument{},
		TotalAmount: amount,
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
}

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mongodb container test in short mode")
	}
	c := context.Background()
	store := setupMongo(t)

	t.Run("given sale should persist snapshot with server timestamp", func(t *testing.T) {
		before := time.Now().Add(-time.Minute)
		sale := request.SubmitSale{
			Items: []cartResponse.CartLine{
				{ID: "1", Name: "Açaí Trad. 300ml", UnitPrice: decimal.RequireFromString("15.00"), Quantity: 2},
				{ID: "4", Name: "Bombom Unitário", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 1},
			},
			TotalAmount: decimal.RequireFromString("32.50"),
		}

		trx, err := store.InsertTransaction(c, sale)

		require.NoError(t, err)
		assert.NotEmpty(t, trx.ID)
		assert.True(t, decimal.RequireFromString("32.50").Equal(trx.TotalAmount))
		require.Len(t, trx.Items, 2)
		assert.True(t, decimal.RequireFromString("2.50").Equal(trx.Items[1].UnitPrice))
		assert.True(t, trx.CreatedAt.After(before))
	})

	t.Run("given sale should write one document and return it as stored", func(t *testing.T) {
		sale := request.SubmitSale{
			Items:       []cartResponse.CartLine{{ID: "2", Name: "Açaí 500ml", UnitPrice: decimal.RequireFromString("20.00"), Quantity: 1}},
			TotalAmount: decimal.RequireFromString("20.00"),
		}
		before, err := store.collection.CountDocuments(c, bson.M{})
		require.NoError(t, err)

		trx, err := store.InsertTransaction(c, sale)
		require.NoError(t, err)

		after, err := store.collection.CountDocuments(c, bson.M{})
		require.NoError(t, err)
		assert.Equal(t, before+1, after)

		id, err := primitive.ObjectIDFromHex(trx.ID)
		require.NoError(t, err)
		stored := transactionDocument{}
		require.NoError(t, store.collection.FindOne(c, bson.M{"_id": id}).Decode(&stored))
		assert.True(t, stored.CreatedAt.Equal(trx.CreatedAt))
		storedTotal, err := DecimalFromDecimal128(stored.TotalAmount)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("20.00").Equal(storedTotal))
	})

	t.Run("given canceled context should fail without writing", func(t *testing.T) {
		before, err := store.collection.CountDocuments(c, bson.M{})
		require.NoError(t, err)
		canceled, cancel := context.WithCancel(c)
		cancel()

		_, err = store.InsertTransaction(canceled, request.SubmitSale{
			Items:       []cartResponse.CartLine{{ID: "4", Name: "Bombom Unitário", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 1}},
			TotalAmount: decimal.RequireFromString("2.50"),
		})

		require.Error(t, err)
		after, err := store.collection.CountDocuments(c, bson.M{})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("given day boundaries should include end of day and exclude next midnight", func(t *testing.T) {
		day := time.Date(2024, 11, 28, 0, 0, 0, 0, time.UTC)
		endOfDay := time.Date(2024, 11, 28, 23, 59, 59, 999_000_000, time.UTC)

		insertDocumentAt(t, store, "3.00", day.Add(12*time.Hour))
		insertDocumentAt(t, store, "1.00", day.Add(-time.Millisecond))
		insertDocumentAt(t, store, "4.00", endOfDay)
		insertDocumentAt(t, store, "5.00", day.AddDate(0, 0, 1))
		insertDocumentAt(t, store, "2.00", day)

		trxs, err := store.FindTransactionsByCreatedAt(c, CreatedAtRange{Start: day, End: endOfDay})

		require.NoError(t, err)
		require.Len(t, trxs, 3)
		assert.True(t, decimal.RequireFromString("4").Equal(trxs[0].TotalAmount))
		assert.True(t, decimal.RequireFromString("3").Equal(trxs[1].TotalAmount))
		assert.True(t, decimal.RequireFromString("2").Equal(trxs[2].TotalAmount))
	})
}
