// Package mongodb implements the domain repositories on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

const (
	colUsers      = "users"
	colCourses    = "courses"
	colReviews    = "reviews"
	colCategories = "categories"
	colLanguages  = "languages"
	colChats      = "chats"
	colMessages   = "messages"
)

func NewClient(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri).SetTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		colCourses: {
			{Keys: bson.D{{Key: "tutor", Value: 1}}},
			{Keys: bson.D{{Key: "language", Value: 1}}},
			{Keys: bson.D{{Key: "rating", Value: -1}}},
		},
		colReviews: {
			{Keys: bson.D{{Key: "course", Value: 1}, {Key: "user", Value: 1}}},
		},
		colChats: {
			{Keys: bson.D{{Key: "users", Value: 1}}},
		},
		colMessages: {
			{Keys: bson.D{{Key: "chat", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
	for col, models := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// oid parses a hex id. Malformed ids cannot match any document, so they map to ErrNotFound.
func oid(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return id, nil
}

func oids(hexes []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		if id, err := primitive.ObjectIDFromHex(h); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// mapErr translates driver errors into repository errors.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}
