package confirm

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnknownRequest = errors.New("unknown confirmation request")

type Action string

const (
	DeleteBean   Action = "delete-bean"
	DeleteShot   Action = "delete-shot"
	ImportBackup Action = "import-backup"
	ClearAll     Action = "clear-all"
)

// Proceed runs once the user approves a request.
type Proceed func(ctx context.Context) error

type Request struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type pending struct {
	request Request
	proceed Proceed
}

// Registry holds destructive actions until the user answers them.
type Registry struct {
	mu      sync.Mutex
	pending map[string]pending
	logger  *zap.Logger
	now     func() time.Time
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{pending: make(map[string]pending), logger: logger, now: time.Now}
}

func (r *Registry) Request(action Action, subject string, message string, proceed Proceed) Request {
	request := Request{
		ID:        uuid.NewString(),
		Action:    action,
		Subject:   subject,
		Message:   message,
		CreatedAt: r.now().UTC(),
	}

	r.mu.Lock()
	r.pending[request.ID] = pending{request: request, proceed: proceed}
	r.mu.Unlock()

	r.logger.Debug("confirmation requested", zap.String("id", request.ID), zap.String("action", string(action)), zap.String("subject", subject))

	return request
}

// Resolve answers a request. A declined request is dropped without running
// anything. Either way the request cannot be answered twice.
func (r *Registry) Resolve(ctx context.Context, id string, approved bool) error {
	r.mu.Lock()
	entry, found := r.pending[id]
	delete(r.pending, id)
	r.mu.Unlock()

	if !found {
		return ErrUnknownRequest
	}

	r.logger.Info("confirmation resolved", zap.String("id", id), zap.String("action", string(entry.request.Action)), zap.Bool("approved", approved))

	if !approved {
		return nil
	}

	return entry.proceed(ctx)
}

func (r *Registry) Pending() []Request {
	r.mu.Lock()
	requests := make([]Request, 0, len(r.pending))

	for _, entry := range r.pending {
		requests = append(requests, entry.request)
	}
	r.mu.Unlock()

	slices.SortFunc(requests, func(a, b Request) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return requests
}
