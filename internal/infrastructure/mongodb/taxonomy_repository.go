package mongodb

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

// nameFilter matches the whole field value case-insensitively.
func nameFilter(field, name string) bson.D {
	return bson.D{{Key: field, Value: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}}}
}

// named is the shared implementation behind categories and languages.
type named[D any, E any] struct {
	col       *mongo.Collection
	nameField string
	toEntity  func(*D) *E
}

func (n named[D, E]) list(ctx context.Context) ([]E, error) {
	cur, err := n.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]E, 0, len(docs))
	for i := range docs {
		out = append(out, *n.toEntity(&docs[i]))
	}
	return out, nil
}

func (n named[D, E]) findOne(ctx context.Context, filter bson.D) (*E, error) {
	var doc D
	if err := n.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return n.toEntity(&doc), nil
}

func (n named[D, E]) getByID(ctx context.Context, id string) (*E, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	return n.findOne(ctx, bson.D{{Key: "_id", Value: _id}})
}

func (n named[D, E]) getByName(ctx context.Context, name string) (*E, error) {
	return n.findOne(ctx, nameFilter(n.nameField, name))
}

func (n named[D, E]) set(ctx context.Context, id string, fields bson.D) (*E, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc D
	err = n.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: _id}},
		bson.D{{Key: "$set", Value: fields}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return n.toEntity(&doc), nil
}

type CategoryRepository struct {
	named[categoryDoc, entity.Category]
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{named[categoryDoc, entity.Category]{
		col:       db.Collection(colCategories),
		nameField: "categoryname",
		toEntity:  (*categoryDoc).toEntity,
	}}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	return r.list(ctx)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getByID(ctx, id)
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getByName(ctx, name)
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	doc := categoryDoc{
		ID: primitive.NewObjectID(), CategoryName: c.CategoryName, Description: c.Description,
		Status: c.Status, CreatedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	c.ID, c.CreatedAt = doc.ID.Hex(), doc.CreatedAt
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, id, name, description string) (*entity.Category, error) {
	return r.set(ctx, id, bson.D{{Key: "categoryname", Value: name}, {Key: "description", Value: description}})
}

func (r *CategoryRepository) SetStatus(ctx context.Context, id string, status bool) (*entity.Category, error) {
	return r.set(ctx, id, bson.D{{Key: "status", Value: status}})
}

type LanguageRepository struct {
	named[languageDoc, entity.Language]
}

func NewLanguageRepository(db *mongo.Database) *LanguageRepository {
	return &LanguageRepository{named[languageDoc, entity.Language]{
		col:       db.Collection(colLanguages),
		nameField: "languagename",
		toEntity:  (*languageDoc).toEntity,
	}}
}

func (r *LanguageRepository) List(ctx context.Context) ([]entity.Language, error) {
	return r.list(ctx)
}

func (r *LanguageRepository) GetByID(ctx context.Context, id string) (*entity.Language, error) {
	return r.getByID(ctx, id)
}

func (r *LanguageRepository) GetByName(ctx context.Context, name string) (*entity.Language, error) {
	return r.getByName(ctx, name)
}

func (r *LanguageRepository) Create(ctx context.Context, l *entity.Language) error {
	doc := languageDoc{
		ID: primitive.NewObjectID(), LanguageName: l.LanguageName, Description: l.Description,
		Status: l.Status, CreatedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	l.ID, l.CreatedAt = doc.ID.Hex(), doc.CreatedAt
	return nil
}

func (r *LanguageRepository) Update(ctx context.Context, id, name, description string) (*entity.Language, error) {
	return r.set(ctx, id, bson.D{{Key: "languagename", Value: name}, {Key: "description", Value: description}})
}

func (r *LanguageRepository) SetStatus(ctx context.Context, id string, status bool) (*entity.Language, error) {
	return r.set(ctx, id, bson.D{{Key: "status", Value: status}})
}

var (
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.LanguageRepository = (*LanguageRepository)(nil)
)
