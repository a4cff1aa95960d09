package memory

import (
	"context"
	"testing"

	"boardcore/application/ports"
	pkgerrors "boardcore/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(boardID, userID string) *ports.BoardRecord {
	return &ports.BoardRecord{
		ID:     boardID,
		UserID: userID,
		Title:  "Board " + boardID,
		Cards: []ports.CardRecord{
			{ID: "card-1", Title: "New Note", Type: "note"},
		},
	}
}

func TestBoardRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewBoardRepository()

	_, err := repo.Create(ctx, testRecord("b1", "user123"))
	require.NoError(t, err)

	record, err := repo.Get(ctx, "b1", "user123")
	require.NoError(t, err)
	assert.Equal(t, "Board b1", record.Title)
	require.Len(t, record.Cards, 1)

	_, err = repo.Create(ctx, testRecord("b1", "user123"))
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestBoardRepository_GetEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	repo := NewBoardRepository()

	_, err := repo.Create(ctx, testRecord("b1", "user123"))
	require.NoError(t, err)

	_, err = repo.Get(ctx, "b1", "other-user")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestBoardRepository_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewBoardRepository()

	record := testRecord("b1", "user123")
	_, err := repo.Create(ctx, record)
	require.NoError(t, err)

	record.Title = "Renamed"
	stored, err := repo.Put(ctx, "b1", "user123", record)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.False(t, stored.UpdatedAt.IsZero())

	fetched, err := repo.Get(ctx, "b1", "user123")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Title)
}

func TestBoardRepository_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBoardRepository()

	_, err := repo.Create(ctx, testRecord("b1", "user123"))
	require.NoError(t, err)

	first, err := repo.Get(ctx, "b1", "user123")
	require.NoError(t, err)
	first.Cards[0].Title = "mutated"

	second, err := repo.Get(ctx, "b1", "user123")
	require.NoError(t, err)
	assert.Equal(t, "New Note", second.Cards[0].Title)
}

func TestBoardRepository_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewBoardRepository()

	_, err := repo.Create(ctx, testRecord("b1", "user123"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testRecord("b2", "user123"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testRecord("b3", "other"))
	require.NoError(t, err)

	records, err := repo.ListByUser(ctx, "user123")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, repo.Delete(ctx, "b1", "user123"))
	records, err = repo.ListByUser(ctx, "user123")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	err = repo.Delete(ctx, "b1", "user123")
	assert.True(t, pkgerrors.IsNotFound(err))
}
