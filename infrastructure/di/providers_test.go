package di

import (
	"context"
	"testing"
	"time"

	"boardcore/application/autosave"
	domaincfg "boardcore/domain/config"
	"boardcore/domain/core/aggregates"
	"boardcore/domain/core/entities"
	"boardcore/domain/core/valueobjects"
	"boardcore/infrastructure/cache"
	"boardcore/infrastructure/config"
	"boardcore/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvideAutosaveOptions(t *testing.T) {
	cfg := &config.Config{
		LocalSaveInterval:  7 * time.Second,
		RemoteSaveInterval: 90 * time.Second,
	}

	opts := ProvideAutosaveOptions(cfg)
	assert.Equal(t, 7*time.Second, opts.LocalInterval)
	assert.Equal(t, 90*time.Second, opts.RemoteInterval)
}

func TestContainer_NewBoardSession(t *testing.T) {
	ctx := context.Background()
	container := &Container{
		DomainConfig:    domaincfg.DefaultDomainConfig(),
		Logger:          zap.NewNop(),
		Repository:      memory.NewBoardRepository(),
		Cache:           cache.NewMemoryCache(),
		AutosaveOptions: autosave.Options{LocalInterval: time.Second, RemoteInterval: time.Second},
	}

	board, err := aggregates.NewBoard("user123", "Board", "", container.DomainConfig)
	require.NoError(t, err)

	controller, coordinator := container.NewBoardSession(board)
	require.NotNil(t, controller)
	require.NotNil(t, coordinator)

	_, err = controller.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	// The flusher is wired: clearing the board persists without a timer tick
	require.NoError(t, controller.DeleteAll(ctx))
	record, err := container.Repository.Get(ctx, controller.BoardID().String(), "user123")
	require.NoError(t, err)
	assert.Empty(t, record.Cards)
}
