// Package repository provides persistence for client authorization records.
//
// The proxy keeps the full client set in memory as the single source of truth
// and mirrors every committed mutation into one JSON document on disk. The
// document is rewritten atomically as a whole; there are no partial-record
// updates.
package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	authDomain "github.com/RobertRosca/zulip-write-only-proxy/internal/auth/domain"
	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// fileRecord is the on-disk shape of a client record. Regular clients carry
// proposal_no and stream; the admin client is marked with the admin flag and
// carries neither. Both roles live in the same document, keyed by token.
type fileRecord struct {
	ProposalNo int64     `json:"proposal_no,omitempty"`
	Stream     string    `json:"stream,omitempty"`
	Admin      bool      `json:"admin,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// FileClientRepository is the authoritative in-memory registry of clients,
// backed by a single JSON document. It is loaded once at construction and is
// never hot-reloaded from disk while running.
//
// Reads (Get, List) take a shared lock and are never blocked by upstream I/O.
// Insert is the only write path: it holds the exclusive lock across both the
// in-memory mutation and the durable save, so concurrent inserts cannot
// interleave or produce a corrupted document.
type FileClientRepository struct {
	path string

	mu      sync.RWMutex
	clients map[string]*authDomain.Client
}

// NewFileClientRepository loads the persisted client document at path.
// An absent document is treated as an empty store (bootstrap case). A present
// but malformed document fails with ErrStoreCorrupt and the file is left
// untouched.
func NewFileClientRepository(path string) (*FileClientRepository, error) {
	repo := &FileClientRepository{
		path:    path,
		clients: make(map[string]*authDomain.Client),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, apperrors.Wrap(err, "failed to read client document")
	}

	var records map[string]fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreCorrupt, err.Error())
	}

	for token, record := range records {
		client := &authDomain.Client{
			Token:      token,
			Role:       authDomain.RoleRegular,
			ProposalNo: record.ProposalNo,
			Stream:     record.Stream,
			CreatedAt:  record.CreatedAt,
		}
		if record.Admin {
			client.Role = authDomain.RoleAdmin
			client.ProposalNo = 0
			client.Stream = ""
		}
		if err := client.Validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStoreCorrupt, err.Error())
		}
		repo.clients[token] = client
	}

	return repo, nil
}

// Get resolves a token to its client record.
// Returns ErrClientNotFound for unknown tokens.
func (r *FileClientRepository) Get(ctx context.Context, token string) (*authDomain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[token]
	if !ok {
		return nil, authDomain.ErrClientNotFound
	}
	return client, nil
}

// Insert adds a new client record and persists the full document before
// returning success (durability before acknowledgment). Returns
// ErrTokenCollision if the token already exists; the caller is expected to
// regenerate the token and retry. If the save fails, the in-memory insertion
// is rolled back and the previously persisted document remains intact.
func (r *FileClientRepository) Insert(ctx context.Context, client *authDomain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client.Token]; exists {
		return authDomain.ErrTokenCollision
	}

	r.clients[client.Token] = client

	if err := r.save(); err != nil {
		delete(r.clients, client.Token)
		return apperrors.Wrap(err, "failed to persist client document")
	}

	return nil
}

// List returns all client records ordered by creation time, then token.
func (r *FileClientRepository) List(ctx context.Context) ([]*authDomain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*authDomain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}

	sort.Slice(clients, func(i, j int) bool {
		if !clients[i].CreatedAt.Equal(clients[j].CreatedAt) {
			return clients[i].CreatedAt.Before(clients[j].CreatedAt)
		}
		return clients[i].Token < clients[j].Token
	})

	return clients, nil
}

// save writes the full client set atomically: marshal to a temporary file in
// the same directory, then rename over the target. A failed write never
// clobbers the previously persisted version. Callers must hold the write lock.
func (r *FileClientRepository) save() error {
	records := make(map[string]fileRecord, len(r.clients))
	for token, client := range r.clients {
		records[token] = fileRecord{
			ProposalNo: client.ProposalNo,
			Stream:     client.Stream,
			Admin:      client.Role == authDomain.RoleAdmin,
			CreatedAt:  client.CreatedAt,
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".clients-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}
