// Package devserver is a stand-in for the purificadora REST backend. It
// serves the same routes and payloads under /api so the client can be
// developed and tested without the production server.
package devserver

import (
	"context"
	"errors"

	"github.com/purificadora/app-client/internal/core/domain"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Account is a user plus the credentials the server keeps for it.
type Account struct {
	domain.User
	PasswordHash string
}

// StoredOrder is an order and the user who placed it.
type StoredOrder struct {
	domain.Order
	UserID int
}

// Store persists dev server state. IDs are positive integers assigned by the store.
type Store interface {
	CreateUser(ctx context.Context, a *Account) (*Account, error)
	UserByEmail(ctx context.Context, email string) (*Account, error)
	UserByID(ctx context.Context, id int) (*Account, error)
	UpdateUser(ctx context.Context, a *Account) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id int) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	// AdjustStock adds delta to the product's stock, failing with
	// ErrInsufficientStock instead of going below zero.
	AdjustStock(ctx context.Context, productID, delta int) error

	CreateOrder(ctx context.Context, o *StoredOrder) (*StoredOrder, error)
	Order(ctx context.Context, id int) (*StoredOrder, error)
	// ListOrders returns the orders of userID, or every order when userID is 0.
	ListOrders(ctx context.Context, userID int) ([]StoredOrder, error)
	UpdateOrder(ctx context.Context, o *StoredOrder) error
	DeleteOrder(ctx context.Context, id int) error
}

// Idempotency maps an Idempotency-Key to the order it created.
type Idempotency interface {
	Lookup(ctx context.Context, key string) (int, bool, error)
	Remember(ctx context.Context, key string, orderID int) error
}
