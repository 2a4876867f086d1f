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

type UserRepository struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewUserRepository(client *mongo.Client, db *mongo.Database) *UserRepository {
	return &UserRepository{client: client, col: db.Collection(colUsers)}
}

var noPassword = bson.D{{Key: "password", Value: 0}}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	doc := newUserDoc(u)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	u.ID = doc.ID.Hex()
	if u.Following == nil {
		u.Following = []string{}
	}
	if u.Followers == nil {
		u.Followers = []string{}
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*entity.User, error) {
	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: _id}})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "email", Value: email}},
	}}})
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	return r.FindByUsernameOrEmail(ctx, identifier, identifier)
}

func (r *UserRepository) findMany(ctx context.Context, filter bson.D) ([]entity.User, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(noPassword))
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toEntity())
	}
	return out, nil
}

func notAdmin() bson.D {
	return bson.D{{Key: "role", Value: bson.D{{Key: "$ne", Value: string(entity.RoleAdmin)}}}}
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	return r.findMany(ctx, notAdmin())
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, notAdmin())
}

func (r *UserRepository) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	return r.findMany(ctx, bson.D{{Key: "role", Value: string(role)}})
}

func (r *UserRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	return r.col.CountDocuments(ctx, bson.D{{Key: "role", Value: string(role)}})
}

func (r *UserRepository) Summaries(ctx context.Context, ids []string) ([]entity.UserSummary, error) {
	if len(ids) == 0 {
		return []entity.UserSummary{}, nil
	}
	users, err := r.findMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids(ids)}}}})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]entity.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u.Summary())
		}
	}
	return out, nil
}

func (r *UserRepository) set(ctx context.Context, id string, fields bson.D) (*entity.User, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	fields = append(fields, bson.E{Key: "updatedAt", Value: time.Now().UTC()})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(noPassword)
	var doc userDoc
	err = r.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: _id}}, bson.D{{Key: "$set", Value: fields}}, opts).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id string, status bool) (*entity.User, error) {
	return r.set(ctx, id, bson.D{{Key: "status", Value: status}})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) (*entity.User, error) {
	return r.set(ctx, id, bson.D{{Key: "password", Value: hash}})
}

func (r *UserRepository) UpdateProfileImage(ctx context.Context, id, url string) (*entity.User, error) {
	return r.set(ctx, id, bson.D{{Key: "profile", Value: url}})
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, id, email, username string) (*entity.User, error) {
	return r.set(ctx, id, bson.D{{Key: "email", Value: email}, {Key: "username", Value: username}})
}

// graphEdit is one follow-graph change: the update for the actor's document
// and the mirrored update for the other user's document.
type graphEdit struct {
	actor func(other primitive.ObjectID) bson.D
	other func(actor primitive.ObjectID) bson.D
}

var (
	followEdit = graphEdit{
		actor: func(target primitive.ObjectID) bson.D { return addToSet("following", target) },
		other: func(actor primitive.ObjectID) bson.D { return addToSet("followers", actor) },
	}
	unfollowEdit = graphEdit{
		actor: func(target primitive.ObjectID) bson.D { return pull("following", target) },
		other: func(actor primitive.ObjectID) bson.D { return pull("followers", actor) },
	}
	removeFollowerEdit = graphEdit{
		actor: func(follower primitive.ObjectID) bson.D { return pull("followers", follower) },
		other: func(actor primitive.ObjectID) bson.D { return pull("following", actor) },
	}
)

// pair applies both sides of e in one transaction so the follow graph stays symmetric.
func (r *UserRepository) pair(ctx context.Context, actor, other string, e graphEdit) error {
	aID, err := oid(actor)
	if err != nil {
		return err
	}
	bID, err := oid(other)
	if err != nil {
		return err
	}
	sess, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.col.UpdateByID(sc, aID, e.actor(bID))
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, repository.ErrNotFound
		}
		res, err = r.col.UpdateByID(sc, bID, e.other(aID))
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, repository.ErrNotFound
		}
		return nil, nil
	})
	return err
}

func addToSet(field string, v primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: field, Value: v}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
}

func pull(field string, v primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "$pull", Value: bson.D{{Key: field, Value: v}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
}

func (r *UserRepository) Follow(ctx context.Context, actorID, targetID string) error {
	return r.pair(ctx, actorID, targetID, followEdit)
}

func (r *UserRepository) Unfollow(ctx context.Context, actorID, targetID string) error {
	return r.pair(ctx, actorID, targetID, unfollowEdit)
}

func (r *UserRepository) RemoveFollower(ctx context.Context, actorID, followerID string) error {
	return r.pair(ctx, actorID, followerID, removeFollowerEdit)
}

var _ repository.UserRepository = (*UserRepository)(nil)
