package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type ReviewRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(colReviews), users: db.Collection(colUsers)}
}

func (r *ReviewRepository) ListByCourse(ctx context.Context, courseID string) ([]entity.ReviewWithUser, error) {
	course, err := oid(courseID)
	if err != nil {
		return []entity.ReviewWithUser{}, nil
	}
	cur, err := r.col.Aggregate(ctx, reviewsPipeline(course))
	if err != nil {
		return nil, err
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.ReviewWithUser, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].withUser())
	}
	return out, nil
}

func (r *ReviewRepository) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	course, err := oid(courseID)
	if err != nil {
		return 0, nil
	}
	return r.col.CountDocuments(ctx, bson.D{{Key: "course", Value: course}})
}

func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) (*entity.ReviewWithUser, error) {
	course, err := oid(rv.CourseID)
	if err != nil {
		return nil, err
	}
	user, err := oid(rv.UserID)
	if err != nil {
		return nil, err
	}
	doc := reviewDoc{
		ID:        primitive.NewObjectID(),
		Course:    course,
		User:      user,
		Review:    rv.Review,
		Rating:    rv.Rating,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapErr(err)
	}
	rv.ID, rv.CreatedAt = doc.ID.Hex(), doc.CreatedAt

	var author userDoc
	err = r.users.FindOne(ctx, bson.D{{Key: "_id", Value: user}}, options.FindOne().SetProjection(noPassword)).Decode(&author)
	if err != nil && mapErr(err) != repository.ErrNotFound {
		return nil, err
	}
	out := entity.ReviewWithUser{Review: *rv}
	if err == nil {
		out.User = author.summary()
	}
	return &out, nil
}

func (r *ReviewRepository) FindByCourseAndUser(ctx context.Context, courseID, userID string) (*entity.Review, error) {
	course, err := oid(courseID)
	if err != nil {
		return nil, err
	}
	user, err := oid(userID)
	if err != nil {
		return nil, err
	}
	var doc reviewDoc
	if err := r.col.FindOne(ctx, bson.D{{Key: "course", Value: course}, {Key: "user", Value: user}}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc reviewDoc
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: _id}}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *ReviewRepository) Update(ctx context.Context, id, text string, rating float64) (*entity.Review, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc reviewDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: _id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "review", Value: text}, {Key: "rating", Value: rating}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) (*entity.Review, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc reviewDoc
	if err := r.col.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: _id}}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
