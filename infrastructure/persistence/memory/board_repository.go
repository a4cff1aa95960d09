package memory

import (
	"context"
	"sync"
	"time"

	"boardcore/application/ports"
	pkgerrors "boardcore/pkg/errors"
)

// BoardRepository is an in-memory ports.BoardRepository for development and
// tests. Records are deep-copied on the way in and out so callers can never
// mutate stored state through a shared pointer.
type BoardRepository struct {
	mu     sync.RWMutex
	boards map[string]*ports.BoardRecord // key: userID + "/" + boardID
}

// NewBoardRepository creates an empty in-memory repository
func NewBoardRepository() *BoardRepository {
	return &BoardRepository{
		boards: make(map[string]*ports.BoardRecord),
	}
}

func storageKey(boardID, userID string) string {
	return userID + "/" + boardID
}

// Create stores a new board document
func (r *BoardRepository) Create(ctx context.Context, record *ports.BoardRecord) (*ports.BoardRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := storageKey(record.ID, record.UserID)
	if _, exists := r.boards[key]; exists {
		return nil, pkgerrors.NewConflictError("board already exists")
	}

	stored := copyRecord(record)
	r.boards[key] = stored
	return copyRecord(stored), nil
}

// Get fetches a board document for the owning user
func (r *BoardRepository) Get(ctx context.Context, boardID, userID string) (*ports.BoardRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.boards[storageKey(boardID, userID)]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("board")
	}
	return copyRecord(record), nil
}

// Put replaces the full board document and returns the stored representation
func (r *BoardRepository) Put(ctx context.Context, boardID, userID string, record *ports.BoardRecord) (*ports.BoardRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyRecord(record)
	stored.ID = boardID
	stored.UserID = userID
	stored.UpdatedAt = time.Now()
	r.boards[storageKey(boardID, userID)] = stored
	return copyRecord(stored), nil
}

// Delete removes a board document for the owning user
func (r *BoardRepository) Delete(ctx context.Context, boardID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := storageKey(boardID, userID)
	if _, exists := r.boards[key]; !exists {
		return pkgerrors.NewNotFoundError("board")
	}
	delete(r.boards, key)
	return nil
}

// ListByUser returns every board owned by the user
func (r *BoardRepository) ListByUser(ctx context.Context, userID string) ([]*ports.BoardRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*ports.BoardRecord, 0)
	for _, record := range r.boards {
		if record.UserID == userID {
			records = append(records, copyRecord(record))
		}
	}
	return records, nil
}

func copyRecord(record *ports.BoardRecord) *ports.BoardRecord {
	out := *record
	out.Cards = make([]ports.CardRecord, len(record.Cards))
	copy(out.Cards, record.Cards)
	for i := range out.Cards {
		if items := record.Cards[i].Data.TodoItems; items != nil {
			out.Cards[i].Data.TodoItems = append(out.Cards[i].Data.TodoItems[:0:0], items...)
		}
		if details := record.Cards[i].Data.Details; details != nil {
			out.Cards[i].Data.Details = append(out.Cards[i].Data.Details[:0:0], details...)
		}
	}
	out.Edges = make([]ports.EdgeRecord, len(record.Edges))
	copy(out.Edges, record.Edges)
	return &out
}
