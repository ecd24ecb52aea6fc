package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service owns the canonical client sequence and keeps the repository in sync with it.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	ops      Ops
	observer Observer

	mu      sync.Mutex
	clients []Client
	dirty   bool
}

// Option configures a Service.
type Option func(*Service)

// WithOps overrides id generation and the creation clock.
func WithOps(ops Ops) Option {
	return func(s *Service) { s.ops = ops }
}

// WithObserver registers an observer for mutations and saves.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService creates a new client service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{repo: repo, logger: logger, clients: []Client{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open initializes the repository and loads the client sequence.
// Corrupt data falls back to an empty list so the application stays usable.
func (s *Service) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	return s.loadLocked(ctx, true)
}

// Reload re-reads the repository, discarding unsaved in-memory state.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, false)
}

func (s *Service) loadLocked(ctx context.Context, fallback bool) error {
	clients, err := s.repo.Load(ctx)
	if err != nil {
		if fallback && errors.Is(err, ErrCorruptData) {
			s.logger.Warn("backing store is corrupt, starting with an empty client list", "error", err)
			s.clients = []Client{}
			s.dirty = false
			return nil
		}
		return fmt.Errorf("loading clients: %w", err)
	}
	if clients == nil {
		clients = []Client{}
	}
	s.clients = clients
	s.dirty = false
	s.logger.Debug("clients loaded", "count", len(clients))
	return nil
}

// Clients returns a copy of the current client sequence.
func (s *Service) Clients() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CloneAll(s.clients)
}

// Client returns a copy of the client with id.
func (s *Service) Client(id int64) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Find(s.clients, id)
}

// Dirty reports whether the in-memory state has changes the repository doesn't.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush writes the in-memory state to the repository.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// AddClient creates a client and persists the result. Mutations also return
// the client sequence as it stood right after the change, taken under the same lock.
func (s *Service) AddClient(ctx context.Context, draft ClientDraft) (Client, []Client, error) {
	var created Client
	snapshot, err := s.mutate(ctx, "add_client", func(current []Client) ([]Client, error) {
		updated, c, err := s.ops.AddClient(current, draft)
		created = c
		return updated, err
	})
	if err != nil && !errors.Is(err, ErrWrite) {
		return Client{}, nil, err
	}
	return created, snapshot, err
}

// UpdateClient merges patch into a client and persists the result.
func (s *Service) UpdateClient(ctx context.Context, id int64, patch ClientPatch) (Client, []Client, error) {
	var changed Client
	snapshot, err := s.mutate(ctx, "update_client", func(current []Client) ([]Client, error) {
		updated, err := UpdateClient(current, id, patch)
		if err != nil {
			return nil, err
		}
		changed, _ = Find(updated, id)
		return updated, nil
	})
	if err != nil && !errors.Is(err, ErrWrite) {
		return Client{}, nil, err
	}
	return changed, snapshot, err
}

// DeleteClient removes a client and persists the result.
func (s *Service) DeleteClient(ctx context.Context, id int64) ([]Client, error) {
	return s.mutate(ctx, "delete_client", func(current []Client) ([]Client, error) {
		return DeleteClient(current, id), nil
	})
}

// AddProject creates a project under a client and persists the result.
func (s *Service) AddProject(ctx context.Context, clientID int64, draft ProjectDraft) (Project, []Client, error) {
	var created Project
	snapshot, err := s.mutate(ctx, "add_project", func(current []Client) ([]Client, error) {
		updated, p, err := s.ops.AddProject(current, clientID, draft)
		created = p
		return updated, err
	})
	if err != nil && !errors.Is(err, ErrWrite) {
		return Project{}, nil, err
	}
	return created, snapshot, err
}

// DeleteProject removes a project and persists the result.
func (s *Service) DeleteProject(ctx context.Context, clientID, projectID int64) ([]Client, error) {
	return s.mutate(ctx, "delete_project", func(current []Client) ([]Client, error) {
		return DeleteProject(current, clientID, projectID), nil
	})
}

// UpdateProjectStatus changes a project's status and persists the result.
func (s *Service) UpdateProjectStatus(ctx context.Context, clientID, projectID int64, status ProjectStatus) ([]Client, error) {
	return s.mutate(ctx, "update_project_status", func(current []Client) ([]Client, error) {
		return UpdateProjectStatus(current, clientID, projectID, status)
	})
}

// mutate applies fn to the canonical sequence and returns a copy of the result.
// A rejected mutation leaves state untouched and returns no copy.
// A failed save keeps the new state in memory, marked dirty, and returns ErrWrite.
func (s *Service) mutate(ctx context.Context, op string, fn func([]Client) ([]Client, error)) ([]Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := fn(s.clients)
	if err != nil {
		s.observeMutation(op, err)
		s.logger.Debug("mutation rejected", "op", op, "error", err)
		return nil, err
	}

	s.clients = updated
	s.dirty = true
	err = s.saveLocked(ctx)
	s.observeMutation(op, err)
	return CloneAll(s.clients), err
}

func (s *Service) saveLocked(ctx context.Context) error {
	start := time.Now()
	err := s.repo.Save(ctx, s.clients)
	if s.observer != nil {
		s.observer.ObserveSave(time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("saving clients failed, in-memory state retained", "error", err)
		if !errors.Is(err, ErrWrite) {
			err = fmt.Errorf("%w: %v", ErrWrite, err)
		}
		return err
	}
	s.dirty = false
	return nil
}

func (s *Service) observeMutation(op string, err error) {
	if s.observer != nil {
		s.observer.ObserveMutation(op, err)
	}
}
