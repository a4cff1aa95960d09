package canvas

import (
	"context"
	"testing"

	"boardcore/domain/core/aggregates"
	"boardcore/domain/core/entities"
	"boardcore/domain/core/valueobjects"
	pkgerrors "boardcore/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFlusher struct {
	calls int
	err   error
}

func (f *fakeFlusher) FlushNow(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	board, err := aggregates.NewBoard("user123", "Board", "", nil)
	require.NoError(t, err)
	return NewController(board, nil, zap.NewNop())
}

func TestController_ClickProgression(t *testing.T) {
	c := newTestController(t)
	card, err := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	assert.Equal(t, StateIdle, c.State(card.ID()))

	require.NoError(t, c.Click(card.ID()))
	assert.Equal(t, StateSelected, c.State(card.ID()))

	// Second click on a selected card begins editing
	require.NoError(t, c.Click(card.ID()))
	assert.Equal(t, StateEditing, c.State(card.ID()))

	c.Blur(card.ID())
	assert.Equal(t, StateIdle, c.State(card.ID()))
}

func TestController_SelectionIsExclusive(t *testing.T) {
	c := newTestController(t)
	a, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))
	b, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(10, 10))

	require.NoError(t, c.Click(a.ID()))
	require.NoError(t, c.Click(b.ID()))

	assert.Equal(t, StateIdle, c.State(a.ID()))
	assert.Equal(t, StateSelected, c.State(b.ID()))
}

func TestController_DragSuppressedWhileEditing(t *testing.T) {
	c := newTestController(t)
	card, err := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(100, 100))
	require.NoError(t, err)

	// Enter editing mode
	require.NoError(t, c.Click(card.ID()))
	require.NoError(t, c.Click(card.ID()))

	// Drag deltas are discarded, not queued
	require.NoError(t, c.Drag(card.ID(), 50, 50))
	assert.Equal(t, valueobjects.NewPosition(100, 100), card.Position())

	// After blur the card moves again, with no replay of the lost delta
	c.Blur(card.ID())
	require.NoError(t, c.Drag(card.ID(), 10, -5))
	assert.Equal(t, valueobjects.NewPosition(110, 95), card.Position())
}

func TestController_DragUnknownCard(t *testing.T) {
	c := newTestController(t)
	err := c.Drag(valueobjects.NewCardID(), 1, 1)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestController_ConnectionGesture(t *testing.T) {
	c := newTestController(t)
	a, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))
	b, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(200, 0))

	require.NoError(t, c.BeginConnection(a.ID(), ""))
	source, handle, active := c.ConnectingFrom()
	assert.True(t, active)
	assert.Equal(t, a.ID(), source)
	assert.Equal(t, valueobjects.HandleRight, handle)

	edge, err := c.CompleteConnection(b.ID(), "")
	require.NoError(t, err)
	assert.Equal(t, valueobjects.HandleRight, edge.SourceHandle())
	assert.Equal(t, valueobjects.HandleLeft, edge.TargetHandle())

	// Gesture is consumed
	_, _, active = c.ConnectingFrom()
	assert.False(t, active)
}

func TestController_ConnectionCancelLeavesNoEdge(t *testing.T) {
	c := newTestController(t)
	a, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))
	b, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(200, 0))

	require.NoError(t, c.BeginConnection(a.ID(), valueobjects.HandleTop))
	c.CancelConnection()

	_, err := c.CompleteConnection(b.ID(), "")
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, c.Snapshot().Edges)
}

func TestController_ConnectionSelfLoopRejected(t *testing.T) {
	c := newTestController(t)
	a, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))

	require.NoError(t, c.BeginConnection(a.ID(), ""))
	_, err := c.CompleteConnection(a.ID(), "")
	assert.True(t, pkgerrors.IsSelfLoop(err))

	// The failed gesture still ended
	_, _, active := c.ConnectingFrom()
	assert.False(t, active)
}

func TestController_DeleteCardEndsPendingConnection(t *testing.T) {
	c := newTestController(t)
	a, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))

	require.NoError(t, c.BeginConnection(a.ID(), ""))
	require.NoError(t, c.DeleteCard(a.ID()))

	_, _, active := c.ConnectingFrom()
	assert.False(t, active)
}

func TestController_KeyboardDeleteGuard(t *testing.T) {
	c := newTestController(t)
	card, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))

	// Backspace inside a text field must not destroy the card
	require.NoError(t, c.DeleteCardViaKeyboard(card.ID(), true))
	snap := c.Snapshot()
	assert.Len(t, snap.Cards, 1)

	// With the card itself focused the shortcut deletes
	require.NoError(t, c.DeleteCardViaKeyboard(card.ID(), false))
	assert.Empty(t, c.Snapshot().Cards)
}

func TestController_DeleteCardCascade(t *testing.T) {
	c := newTestController(t)
	a, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))
	b, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(200, 0))

	require.NoError(t, c.BeginConnection(a.ID(), ""))
	_, err := c.CompleteConnection(b.ID(), "")
	require.NoError(t, err)

	require.NoError(t, c.DeleteCard(a.ID()))

	snap := c.Snapshot()
	assert.Len(t, snap.Cards, 1)
	assert.Empty(t, snap.Edges)
}

func TestController_ResizeClamps(t *testing.T) {
	c := newTestController(t)
	card, _ := c.AddCard(entities.CardTypeImage, valueobjects.NewPosition(0, 0))

	require.NoError(t, c.Resize(card.ID(), 10, 10))
	assert.Equal(t, 200.0, card.Size().Width())
	assert.Equal(t, 100.0, card.Size().Height())

	require.NoError(t, c.EndResize(card.ID(), 500, 400))
	assert.Equal(t, 500.0, card.Size().Width())
	assert.Equal(t, 400.0, card.Size().Height())
}

func TestController_DeleteAllFlushesImmediately(t *testing.T) {
	c := newTestController(t)
	flusher := &fakeFlusher{}
	c.SetFlusher(flusher)

	a, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(0, 0))
	b, _ := c.AddCard(entities.CardTypeNote, valueobjects.NewPosition(200, 0))
	require.NoError(t, c.BeginConnection(a.ID(), ""))
	_, err := c.CompleteConnection(b.ID(), "")
	require.NoError(t, err)

	require.NoError(t, c.DeleteAll(context.Background()))

	assert.Equal(t, 1, flusher.calls)
	snap := c.Snapshot()
	assert.Empty(t, snap.Cards)
	assert.Empty(t, snap.Edges)
	assert.Equal(t, StateIdle, c.State(a.ID()))
}

func TestController_TodoOperations(t *testing.T) {
	c := newTestController(t)
	card, err := c.AddCard(entities.CardTypeTodo, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	item, err := c.AddTodoItem(card.ID(), "review draft")
	require.NoError(t, err)
	require.NoError(t, c.ToggleTodoItem(card.ID(), item.ID))
	assert.True(t, card.TodoItems()[0].Completed)

	require.NoError(t, c.RemoveTodoItem(card.ID(), item.ID))
	assert.Empty(t, card.TodoItems())
}
