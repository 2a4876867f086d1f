package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-learning-platform/pkg/helpers"
)

// Publisher enqueues a JSON job (RabbitMQ in production).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Indexer is the search backend (Elasticsearch in production).
type Indexer interface {
	Index(ctx context.Context, index, id string, doc any) error
	Search(ctx context.Context, index, q string, fields []string, size int) ([]map[string]any, error)
}

// Uploader stores a file and returns its public URL (GCS in production).
type Uploader interface {
	Upload(ctx context.Context, prefix, owner, filename, contentType string, r io.Reader) (string, error)
}

// IdentityVerifier validates a third-party ID token (Google in production).
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*helpers.GoogleIdentity, error)
}

// Broadcaster fans a realtime event out to the members of a room.
type Broadcaster interface {
	Broadcast(room, event string, data any)
}

// RequestMeta carries caller details recorded in audit logs and emails.
type RequestMeta struct {
	IP        string
	UserAgent string
}
