package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/devserver"
)

type orderDoc struct {
	ID        int        `bson:"_id"`
	UserID    int        `bson:"user_id"`
	ProductID int        `bson:"producto_id"`
	Quantity  int        `bson:"cantidad"`
	Total     float64    `bson:"total"`
	Status    string     `bson:"estado"`
	Product   productDoc `bson:"producto"`
	CreatedAt int64      `bson:"created_at"`
	UpdatedAt int64      `bson:"updated_at"`
}

func toOrderDoc(o *devserver.StoredOrder) orderDoc {
	return orderDoc{
		ID:        o.ID,
		UserID:    o.UserID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
		Total:     o.Total,
		Status:    o.Status,
		Product:   toProductDoc(o.Product),
	}
}

func (d orderDoc) order() devserver.StoredOrder {
	return devserver.StoredOrder{
		Order: domain.Order{
			ID:        d.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Total:     d.Total,
			Status:    d.Status,
			Product:   d.Product.product(),
		},
		UserID: d.UserID,
	}
}

func (s *Store) CreateOrder(ctx context.Context, o *devserver.StoredOrder) (*devserver.StoredOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := s.nextID(ctx, collectionOrders)
	if err != nil {
		return nil, err
	}
	doc := toOrderDoc(o)
	doc.ID = id
	doc.CreatedAt = s.now().Unix()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := s.orders.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert pedido: %w", err)
	}
	created := doc.order()
	return &created, nil
}

func (s *Store) Order(ctx context.Context, id int) (*devserver.StoredOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	o := doc.order()
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, userID int) ([]devserver.StoredOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != 0 {
		filter["user_id"] = userID
	}
	cur, err := s.orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find pedidos: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pedidos: %w", err)
	}

	out := make([]devserver.StoredOrder, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.order())
	}
	return out, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o *devserver.StoredOrder) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toOrderDoc(o)
	res, err := s.orders.UpdateOne(ctx, bson.M{"_id": o.ID}, bson.M{"$set": bson.M{
		"producto_id": doc.ProductID,
		"cantidad":    doc.Quantity,
		"total":       doc.Total,
		"estado":      doc.Status,
		"producto":    doc.Product,
		"updated_at":  s.now().Unix(),
	}})
	if err != nil {
		return fmt.Errorf("update pedido: %w", err)
	}
	if res.MatchedCount == 0 {
		return devserver.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete pedido: %w", err)
	}
	if res.DeletedCount == 0 {
		return devserver.ErrNotFound
	}
	return nil
}
