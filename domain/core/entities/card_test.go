package entities

import (
	"testing"
	"time"

	"boardcore/domain/config"
	"boardcore/domain/core/valueobjects"
	pkgerrors "boardcore/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard_TypeDefaults(t *testing.T) {
	pos := valueobjects.NewPosition(10, 20)

	note, err := NewCard(CardTypeNote, pos)
	require.NoError(t, err)
	assert.Equal(t, "New Note", note.Content())
	assert.Equal(t, "<p>Click to add content...</p>", note.HTML())

	todo, err := NewCard(CardTypeTodo, pos)
	require.NoError(t, err)
	assert.Equal(t, "New To-do", todo.Content())
	assert.Empty(t, todo.TodoItems())

	link, err := NewCard(CardTypeLink, pos)
	require.NoError(t, err)
	assert.Equal(t, "New Link", link.Content())

	image, err := NewCard(CardTypeImage, pos)
	require.NoError(t, err)
	assert.Equal(t, "New Image", image.Content())
	assert.True(t, image.Size().IsZero())
}

func TestNewCard_UnknownType(t *testing.T) {
	_, err := NewCard(CardType("video"), valueobjects.NewPosition(0, 0))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestCard_TodoToggleKeepsPosition(t *testing.T) {
	// Arrange
	card, err := NewCard(CardTypeTodo, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	first, err := card.AddTodoItem("buy milk", nil)
	require.NoError(t, err)
	second, err := card.AddTodoItem("walk dog", nil)
	require.NoError(t, err)
	third, err := card.AddTodoItem("write report", nil)
	require.NoError(t, err)

	// Act
	require.NoError(t, card.ToggleTodoItem(second.ID))

	// Assert: order unchanged, only the toggled item completed
	items := card.TodoItems()
	require.Len(t, items, 3)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, third.ID, items[2].ID)
	assert.False(t, items[0].Completed)
	assert.True(t, items[1].Completed)
	assert.False(t, items[2].Completed)

	// Toggle back
	require.NoError(t, card.ToggleTodoItem(second.ID))
	assert.False(t, card.TodoItems()[1].Completed)
}

func TestCard_TodoRemoveByID(t *testing.T) {
	card, err := NewCard(CardTypeTodo, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	first, _ := card.AddTodoItem("one", nil)
	second, _ := card.AddTodoItem("two", nil)

	require.NoError(t, card.RemoveTodoItem(first.ID))

	items := card.TodoItems()
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	err = card.RemoveTodoItem("no-such-id")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCard_TodoOnNonTodoCard(t *testing.T) {
	card, err := NewCard(CardTypeNote, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	_, err = card.AddTodoItem("nope", nil)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.True(t, pkgerrors.IsValidation(card.ToggleTodoItem("x")))
}

func TestTodoDetails_LegacyRoundTrip(t *testing.T) {
	items := []TodoItem{
		{ID: "a", Text: "done thing", Completed: true},
		{ID: "b", Text: "open thing"},
	}

	details := EncodeTodoDetails(items)
	assert.Equal(t, []string{"[x] done thing", "open thing"}, details)

	decoded := DecodeTodoDetails(details)
	require.Len(t, decoded, 2)
	assert.Equal(t, "done thing", decoded[0].Text)
	assert.True(t, decoded[0].Completed)
	assert.Equal(t, "open thing", decoded[1].Text)
	assert.False(t, decoded[1].Completed)
	assert.NotEmpty(t, decoded[0].ID)
}

func TestReconstructCard_DecodesLegacyTodoDetails(t *testing.T) {
	card, err := ReconstructCard(
		valueobjects.NewCardID(),
		CardTypeTodo,
		valueobjects.NewPosition(0, 0),
		valueobjects.Size{},
		"Groceries",
		[]string{"[x] milk", "eggs"},
		"",
		nil,
		time.Now(), time.Now(),
	)
	require.NoError(t, err)

	items := card.TodoItems()
	require.Len(t, items, 2)
	assert.Equal(t, "milk", items[0].Text)
	assert.True(t, items[0].Completed)
	assert.Equal(t, "eggs", items[1].Text)
}

func TestCard_ApplyUpdate_Partial(t *testing.T) {
	card, err := NewCard(CardTypeNote, valueobjects.NewPosition(5, 5))
	require.NoError(t, err)

	content := "Meeting notes"
	require.NoError(t, card.ApplyUpdate(CardUpdate{Content: &content}, nil))

	assert.Equal(t, "Meeting notes", card.Content())
	// Untouched fields survive a partial update
	assert.Equal(t, "<p>Click to add content...</p>", card.HTML())
	assert.Equal(t, valueobjects.NewPosition(5, 5), card.Position())
}

func TestCard_ApplyUpdate_FailureLeavesCardUnchanged(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxTitleLength = 5

	card, err := NewCard(CardTypeNote, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	long := "this title is far too long"
	html := "<p>new body</p>"
	err = card.ApplyUpdate(CardUpdate{Content: &long, HTML: &html}, cfg)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	// Nothing applied, including the otherwise valid HTML field
	assert.Equal(t, "New Note", card.Content())
	assert.Equal(t, "<p>Click to add content...</p>", card.HTML())
}

func TestCard_ResizeClampsToMinimum(t *testing.T) {
	card, err := NewCard(CardTypeImage, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	card.Resize(valueobjects.NewSize(50, 30), nil)

	assert.Equal(t, 200.0, card.Size().Width())
	assert.Equal(t, 100.0, card.Size().Height())

	card.Resize(valueobjects.NewSize(400, 300), nil)
	assert.Equal(t, 400.0, card.Size().Width())
	assert.Equal(t, 300.0, card.Size().Height())
}

func TestCard_BackfillTitle(t *testing.T) {
	card, err := NewCard(CardTypeLink, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)

	// Default title gets replaced by fetched metadata
	assert.True(t, card.BackfillTitle("Example Site"))
	assert.Equal(t, "Example Site", card.Content())

	// A user-set title is never overwritten
	assert.False(t, card.BackfillTitle("Other Title"))
	assert.Equal(t, "Example Site", card.Content())

	note, _ := NewCard(CardTypeNote, valueobjects.NewPosition(0, 0))
	assert.False(t, note.BackfillTitle("irrelevant"))
}

func TestCard_CloneDoesNotAlias(t *testing.T) {
	card, err := NewCard(CardTypeTodo, valueobjects.NewPosition(0, 0))
	require.NoError(t, err)
	item, _ := card.AddTodoItem("original", nil)

	clone := card.Clone()
	require.NoError(t, card.ToggleTodoItem(item.ID))

	assert.True(t, card.TodoItems()[0].Completed)
	assert.False(t, clone.TodoItems()[0].Completed)
}
