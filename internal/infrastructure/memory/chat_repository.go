package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

type ChatRepository struct {
	s *Store
}

func NewChatRepository(s *Store) *ChatRepository {
	return &ChatRepository{s: s}
}

func copyChat(c *entity.Chat) entity.Chat {
	out := *c
	out.Users = cloneStrings(c.Users)
	return out
}

func (r *ChatRepository) FindOrCreate(_ context.Context, a, b string) (*entity.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.chats {
		if len(c.Users) == 2 && c.HasMember(a) && c.HasMember(b) {
			out := copyChat(c)
			return &out, nil
		}
	}
	now := r.s.now()
	c := &entity.Chat{ID: newID(), Users: []string{a, b}, CreatedAt: now, UpdatedAt: now}
	r.s.chats[c.ID] = c
	out := copyChat(c)
	return &out, nil
}

func (r *ChatRepository) GetByID(_ context.Context, id string) (*entity.Chat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.chats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyChat(c)
	return &out, nil
}

func (r *ChatRepository) ListByUser(_ context.Context, userID string) ([]entity.Chat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []entity.Chat{}
	for _, id := range sortedKeys(r.s.chats) {
		if c := r.s.chats[id]; c.HasMember(userID) {
			out = append(out, copyChat(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *ChatRepository) AddMessage(_ context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[m.ChatID]
	if !ok {
		return repository.ErrNotFound
	}
	m.ID = newID()
	m.CreatedAt = r.s.now()
	r.s.messages[m.ChatID] = append(r.s.messages[m.ChatID], *m)
	c.LatestMessage = m.ID
	c.UpdatedAt = m.CreatedAt
	return nil
}

func (r *ChatRepository) Messages(_ context.Context, chatID string) ([]entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if _, ok := r.s.chats[chatID]; !ok {
		return nil, repository.ErrNotFound
	}
	return append([]entity.Message{}, r.s.messages[chatID]...), nil
}

var _ repository.ChatRepository = (*ChatRepository)(nil)
