package application

import (
	"context"
	"strings"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

// Realtime event names sent to chat rooms.
const (
	EventMessage = "message"
)

type ChatService struct {
	Chats repo.ChatRepository
	Users repo.UserRepository
	Hub   Broadcaster
}

// Access returns the one-to-one chat between userID and otherID, creating it when needed.
func (s *ChatService) Access(ctx context.Context, userID, otherID string) (*entity.Chat, error) {
	if userID == otherID {
		return nil, ErrSelfChat
	}
	if _, err := s.Users.GetByID(ctx, otherID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return s.Chats.FindOrCreate(ctx, userID, otherID)
}

func (s *ChatService) Fetch(ctx context.Context, userID string) ([]entity.Chat, error) {
	return s.Chats.ListByUser(ctx, userID)
}

// Member loads a chat and checks userID takes part in it.
func (s *ChatService) Member(ctx context.Context, chatID, userID string) (*entity.Chat, error) {
	chat, err := s.Chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, notFound(err, ErrChatNotFound)
	}
	if !chat.HasMember(userID) {
		return nil, ErrNotInChat
	}
	return chat, nil
}

// Send stores the message, then fans it out to the chat room. Delivery is at most once.
func (s *ChatService) Send(ctx context.Context, chatID, senderID, content string) (*entity.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := s.Member(ctx, chatID, senderID); err != nil {
		return nil, err
	}
	m := &entity.Message{ChatID: chatID, Sender: senderID, Content: content}
	if err := s.Chats.AddMessage(ctx, m); err != nil {
		return nil, notFound(err, ErrChatNotFound)
	}
	if s.Hub != nil {
		s.Hub.Broadcast(chatID, EventMessage, m)
	}
	return m, nil
}

func (s *ChatService) Messages(ctx context.Context, chatID, userID string) ([]entity.Message, error) {
	if _, err := s.Member(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.Chats.Messages(ctx, chatID)
}
