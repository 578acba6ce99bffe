package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"droscher.com/Portafilter/pkg/confirm"
	"droscher.com/Portafilter/pkg/model"
	"droscher.com/Portafilter/pkg/repository"
)

var (
	ErrNotLoaded     = errors.New("store has not been loaded")
	ErrPersist       = errors.New("failed to persist snapshot")
	ErrBeanNotFound  = errors.New("bean not found")
	ErrShotNotFound  = errors.New("shot not found")
	ErrUnknownBeanID = errors.New("shot references an unknown bean")
)

// Store is the single in-memory authority over the log. Every mutation runs
// to completion, including the snapshot write, before the next one starts.
type Store struct {
	mu            sync.Mutex
	repository    repository.SnapshotRepository
	confirmations *confirm.Registry
	logger        *zap.Logger
	now           func() time.Time
	newID         func() string

	data   model.Snapshot
	loaded bool
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func New(repository repository.SnapshotRepository, confirmations *confirm.Registry, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		repository:    repository,
		confirmations: confirmations,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.NewString,
		data:          model.Snapshot{Beans: []model.Bean{}, Shots: []model.Shot{}},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load hydrates the store from the persisted snapshot. A missing snapshot
// starts an empty log, and so does one that cannot be parsed.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	document, found, err := s.repository.LoadSnapshot(ctx)
	if err != nil {
		s.logger.Error("error reading snapshot", zap.Error(err))

		return err
	}

	snapshot := model.Snapshot{Beans: []model.Bean{}, Shots: []model.Shot{}}

	if found {
		var parsed model.Snapshot

		if err := json.Unmarshal(document, &parsed); err != nil {
			s.logger.Warn("discarding malformed snapshot", zap.Error(err))
		} else {
			parsed.Sanitize(s.logger)
			snapshot = parsed
		}
	}

	s.data = snapshot
	s.loaded = true

	s.logger.Info("loaded snapshot", zap.Int("beans", len(s.data.Beans)), zap.Int("shots", len(s.data.Shots)))

	return nil
}

// persist writes both collections as one document. An empty log is only
// written when the user explicitly removed data, so an empty store can
// never overwrite a snapshot it has not read yet.
func (s *Store) persist(ctx context.Context, explicit bool) error {
	if s.data.Empty() && !explicit {
		s.logger.Debug("skipping write of empty snapshot")

		return nil
	}

	document, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := s.repository.SaveSnapshot(ctx, document); err != nil {
		s.logger.Error("error writing snapshot", zap.Error(err))

		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}

// commit persists the current log. When the write fails the log is put back
// to previous, so a failed mutation never takes effect.
func (s *Store) commit(ctx context.Context, previous model.Snapshot, explicit bool) error {
	if err := s.persist(ctx, explicit); err != nil {
		s.data = previous

		return err
	}

	return nil
}

func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Clone()
}

// Replace overwrites the whole log with the given snapshot.
func (s *Store) Replace(ctx context.Context, snapshot model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	previous := s.data.Clone()

	s.data = snapshot.Clone()

	if err := s.commit(ctx, previous, true); err != nil {
		return err
	}

	s.logger.Info("replaced log", zap.Int("beans", len(s.data.Beans)), zap.Int("shots", len(s.data.Shots)))

	return nil
}

func (s *Store) RequestReplace(snapshot model.Snapshot) confirm.Request {
	message := fmt.Sprintf("Replace all data with %d beans and %d shots from the backup?", len(snapshot.Beans), len(snapshot.Shots))

	return s.confirmations.Request(confirm.ImportBackup, "", message, func(ctx context.Context) error {
		return s.Replace(ctx, snapshot)
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.Replace(ctx, model.Snapshot{Beans: []model.Bean{}, Shots: []model.Shot{}})
}

func (s *Store) RequestClear() confirm.Request {
	return s.confirmations.Request(confirm.ClearAll, "", "Delete every bean and shot?", s.Clear)
}
