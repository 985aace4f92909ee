package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/devserver"
)

const (
	collectionUsers    = "users"
	collectionProducts = "productos"
	collectionOrders   = "pedidos"
	collectionCounters = "counters"
)

// Store is a devserver.Store on MongoDB. Documents use integer _id values
// drawn from the counters collection so that ids match the REST payloads.
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	products *mongo.Collection
	orders   *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

var _ devserver.Store = (*Store)(nil)

func NewStore(db *mongo.Database) *Store {
	return &Store{
		users:    db.Collection(collectionUsers),
		products: db.Collection(collectionProducts),
		orders:   db.Collection(collectionOrders),
		counters: db.Collection(collectionCounters),
		now:      time.Now,
	}
}

// EnsureIndexes creates the indexes the store relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if _, err := s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("pedidos indexes: %w", err)
	}
	return nil
}

// Seed inserts the given products unless a document with the same id exists.
func (s *Store) Seed(ctx context.Context, products []domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, p := range products {
		_, err := s.products.UpdateOne(ctx,
			bson.M{"_id": p.ID},
			bson.M{"$setOnInsert": toProductDoc(p)},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}
	return nil
}

// nextID atomically increments and returns the sequence named name.
func (s *Store) nextID(ctx context.Context, name string) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return devserver.ErrNotFound
	}
	return err
}
