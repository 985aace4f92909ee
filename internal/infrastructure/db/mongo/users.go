package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/devserver"
)

type userDoc struct {
	ID              int    `bson:"_id"`
	Name            string `bson:"name"`
	Email           string `bson:"email"`
	EmailKey        string `bson:"email_key"`
	Role            string `bson:"role"`
	Address         string `bson:"direccion,omitempty"`
	Phone           string `bson:"telefono,omitempty"`
	EmailVerifiedAt string `bson:"email_verified_at,omitempty"`
	PasswordHash    string `bson:"password_hash"`
	CreatedAt       int64  `bson:"created_at"`
	UpdatedAt       int64  `bson:"updated_at"`
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserDoc(a *devserver.Account) userDoc {
	return userDoc{
		ID:              a.ID,
		Name:            a.Name,
		Email:           a.Email,
		EmailKey:        emailKey(a.Email),
		Role:            a.Role,
		Address:         a.Address,
		Phone:           a.Phone,
		EmailVerifiedAt: a.EmailVerifiedAt,
		PasswordHash:    a.PasswordHash,
	}
}

func (d userDoc) account() *devserver.Account {
	return &devserver.Account{
		User: domain.User{
			ID:              d.ID,
			Name:            d.Name,
			Email:           d.Email,
			Role:            d.Role,
			Address:         d.Address,
			Phone:           d.Phone,
			EmailVerifiedAt: d.EmailVerifiedAt,
		},
		PasswordHash: d.PasswordHash,
	}
}

func (s *Store) CreateUser(ctx context.Context, a *devserver.Account) (*devserver.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := s.nextID(ctx, collectionUsers)
	if err != nil {
		return nil, err
	}
	doc := toUserDoc(a)
	doc.ID = id
	doc.CreatedAt = s.now().Unix()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, devserver.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.account(), nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*devserver.Account, error) {
	return s.findUser(ctx, bson.M{"email_key": emailKey(email)})
}

func (s *Store) UserByID(ctx context.Context, id int) (*devserver.Account, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*devserver.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.account(), nil
}

func (s *Store) UpdateUser(ctx context.Context, a *devserver.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDoc(a)
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": bson.M{
		"name":              doc.Name,
		"direccion":         doc.Address,
		"telefono":          doc.Phone,
		"email_verified_at": doc.EmailVerifiedAt,
		"password_hash":     doc.PasswordHash,
		"role":              doc.Role,
		"updated_at":        s.now().Unix(),
	}})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return devserver.ErrNotFound
	}
	return nil
}
