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

type ChatRepository struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{chats: db.Collection(colChats), messages: db.Collection(colMessages)}
}

func (r *ChatRepository) FindOrCreate(ctx context.Context, a, b string) (*entity.Chat, error) {
	aID, err := oid(a)
	if err != nil {
		return nil, err
	}
	bID, err := oid(b)
	if err != nil {
		return nil, err
	}
	var doc chatDoc
	filter := bson.D{{Key: "users", Value: bson.D{
		{Key: "$all", Value: bson.A{aID, bID}},
		{Key: "$size", Value: 2},
	}}}
	err = r.chats.FindOne(ctx, filter).Decode(&doc)
	if err == nil {
		return doc.toEntity(), nil
	}
	if mapErr(err) != repository.ErrNotFound {
		return nil, err
	}
	now := time.Now().UTC()
	doc = chatDoc{ID: primitive.NewObjectID(), Users: []primitive.ObjectID{aID, bID}, CreatedAt: now, UpdatedAt: now}
	if _, err := r.chats.InsertOne(ctx, doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	_id, err := oid(id)
	if err != nil {
		return nil, err
	}
	var doc chatDoc
	if err := r.chats.FindOne(ctx, bson.D{{Key: "_id", Value: _id}}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]entity.Chat, error) {
	user, err := oid(userID)
	if err != nil {
		return []entity.Chat{}, nil
	}
	cur, err := r.chats.Find(ctx,
		bson.D{{Key: "users", Value: user}},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []chatDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Chat, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toEntity())
	}
	return out, nil
}

func (r *ChatRepository) AddMessage(ctx context.Context, m *entity.Message) error {
	chat, err := oid(m.ChatID)
	if err != nil {
		return err
	}
	sender, err := oid(m.Sender)
	if err != nil {
		return err
	}
	doc := messageDoc{ID: primitive.NewObjectID(), Chat: chat, Sender: sender, Content: m.Content, CreatedAt: time.Now().UTC()}
	res, err := r.chats.UpdateByID(ctx, chat, bson.D{{Key: "$set", Value: bson.D{
		{Key: "latestMessage", Value: doc.ID},
		{Key: "updatedAt", Value: doc.CreatedAt},
	}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	if _, err := r.messages.InsertOne(ctx, doc); err != nil {
		return err
	}
	m.ID, m.CreatedAt = doc.ID.Hex(), doc.CreatedAt
	return nil
}

func (r *ChatRepository) Messages(ctx context.Context, chatID string) ([]entity.Message, error) {
	chat, err := oid(chatID)
	if err != nil {
		return nil, err
	}
	cur, err := r.messages.Find(ctx,
		bson.D{{Key: "chat", Value: chat}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Message, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

var _ repository.ChatRepository = (*ChatRepository)(nil)
