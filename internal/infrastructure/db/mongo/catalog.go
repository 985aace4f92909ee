package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/devserver"
)

type productDoc struct {
	ID          int     `bson:"_id"`
	Name        string  `bson:"nombre"`
	Description string  `bson:"descripcion,omitempty"`
	Price       float64 `bson:"precio"`
	Quantity    int     `bson:"cantidad"`
}

func toProductDoc(p domain.Product) productDoc {
	return productDoc{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price, Quantity: p.Quantity}
}

func (d productDoc) product() domain.Product {
	return domain.Product{ID: d.ID, Name: d.Name, Description: d.Description, Price: d.Price, Quantity: d.Quantity}
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.products.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find productos: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode productos: %w", err)
	}

	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.product())
	}
	return out, nil
}

func (s *Store) Product(ctx context.Context, id int) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	p := doc.product()
	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	if res.DeletedCount == 0 {
		return devserver.ErrNotFound
	}
	return nil
}

// AdjustStock is a single conditional $inc, so concurrent orders can never
// drive the stock below zero.
func (s *Store) AdjustStock(ctx context.Context, productID, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": productID}
	if delta < 0 {
		filter["cantidad"] = bson.M{"$gte": -delta}
	}
	res, err := s.products.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"cantidad": delta}})
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := s.products.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if n == 0 {
		return devserver.ErrNotFound
	}
	return devserver.ErrInsufficientStock
}
