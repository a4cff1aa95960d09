package canvas

import (
	"context"
	"sync"
	"time"

	"boardcore/domain/config"
	"boardcore/domain/core/aggregates"
	"boardcore/domain/core/entities"
	"boardcore/domain/core/valueobjects"
	pkgerrors "boardcore/pkg/errors"

	"go.uber.org/zap"
)

// CardState is the ephemeral interaction state of one card. It lives in the
// controller's side table, is never persisted, and is queried directly
// instead of being sniffed from rendered markup.
type CardState string

const (
	StateIdle     CardState = "idle"
	StateSelected CardState = "selected"
	StateEditing  CardState = "editing"
)

// Flusher triggers an immediate write to both persistence tiers, bypassing
// the autosave timers. Used by destructive whole-board operations.
type Flusher interface {
	FlushNow(ctx context.Context) error
}

// pendingConnection is the in-flight half of a two-phase connect gesture
type pendingConnection struct {
	source valueobjects.CardID
	handle valueobjects.Handle
}

// Controller owns the live board for one board-view session and translates
// user gestures into board mutations. It enforces the freeze-while-editing
// rule and connection-handle defaulting. All methods are safe for use from
// the UI goroutine and the autosave timers.
type Controller struct {
	mu         sync.Mutex
	board      *aggregates.Board
	cfg        *config.DomainConfig
	states     map[valueobjects.CardID]CardState
	connecting *pendingConnection
	flusher    Flusher
	logger     *zap.Logger
}

// NewController creates a controller owning the given board
func NewController(board *aggregates.Board, cfg *config.DomainConfig, logger *zap.Logger) *Controller {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		board:  board,
		cfg:    cfg,
		states: make(map[valueobjects.CardID]CardState),
		logger: logger,
	}
}

// SetFlusher wires the persistence coordinator's immediate-flush hook
func (c *Controller) SetFlusher(flusher Flusher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flusher = flusher
}

// BoardID returns the identifier of the board this session owns
func (c *Controller) BoardID() aggregates.BoardID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.ID()
}

// Snapshot captures a consistent point-in-time copy of the board
func (c *Controller) Snapshot() aggregates.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Snapshot()
}

// ApplyServerMetadata replaces board metadata with the repository's returned
// representation after a successful remote save
func (c *Controller) ApplyServerMetadata(title, description string, updatedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.board.ApplyServerMetadata(title, description, updatedAt)
}

// State returns a card's current interaction state
func (c *Controller) State(id valueobjects.CardID) CardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.states[id]; ok {
		return state
	}
	return StateIdle
}

// AddCard creates a card with type defaults at the given position
func (c *Controller) AddCard(cardType entities.CardType, position valueobjects.Position) (*entities.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, err := c.board.AddCard(cardType, position)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("card added",
		zap.String("cardID", card.ID().String()),
		zap.String("type", string(cardType)),
	)
	return card, nil
}

// Click advances a card's state: idle selects, a second click while
// selected begins editing.
func (c *Controller) Click(id valueobjects.CardID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.board.HasCard(id) {
		return pkgerrors.NewNotFoundError("card")
	}

	switch c.states[id] {
	case StateSelected:
		c.states[id] = StateEditing
	case StateEditing:
		// Already editing; clicks inside the editor are not gestures.
	default:
		// Selection is exclusive: selecting one card deselects the rest.
		for other, state := range c.states {
			if state == StateSelected {
				delete(c.states, other)
			}
		}
		c.states[id] = StateSelected
	}
	return nil
}

// Blur ends editing or selection for a card (blur, click-outside, deselect)
func (c *Controller) Blur(id valueobjects.CardID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, id)
}

// Drag applies a position delta to a card. Deltas targeting a card in
// editing mode are discarded, not queued.
func (c *Controller) Drag(id valueobjects.CardID, dx, dy float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.board.Card(id)
	if err != nil {
		return err
	}
	if c.states[id] == StateEditing {
		c.logger.Debug("drag suppressed while editing", zap.String("cardID", id.String()))
		return nil
	}

	card.MoveTo(card.Position().Translate(dx, dy))
	return nil
}

// MoveTo places a card at an absolute position, subject to the same
// freeze-while-editing rule as Drag.
func (c *Controller) MoveTo(id valueobjects.CardID, position valueobjects.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.board.Card(id)
	if err != nil {
		return err
	}
	if c.states[id] == StateEditing {
		return nil
	}

	card.MoveTo(position)
	return nil
}

// BeginConnection starts the two-phase connect gesture from a card's handle.
// An empty handle defaults to the source side ("right").
func (c *Controller) BeginConnection(id valueobjects.CardID, handle valueobjects.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.board.HasCard(id) {
		return pkgerrors.NewNotFoundError("card")
	}
	if handle == "" {
		handle = valueobjects.DefaultSourceHandle
	}
	if !handle.IsValid() {
		return pkgerrors.NewValidationError("invalid handle: " + handle.String())
	}

	c.connecting = &pendingConnection{source: id, handle: handle}
	return nil
}

// ConnectingFrom reports the in-flight connection gesture, if any
func (c *Controller) ConnectingFrom() (valueobjects.CardID, valueobjects.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connecting == nil {
		return valueobjects.CardID{}, "", false
	}
	return c.connecting.source, c.connecting.handle, true
}

// CompleteConnection commits the pending gesture as an edge to the target
// card. The gesture ends whether or not the commit succeeds.
func (c *Controller) CompleteConnection(targetID valueobjects.CardID, targetHandle valueobjects.Handle) (*entities.Edge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.connecting
	c.connecting = nil
	if pending == nil {
		return nil, pkgerrors.NewValidationError("no connection in progress")
	}

	edge, err := c.board.Connect(pending.source, targetID, pending.handle, targetHandle)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("edge connected",
		zap.String("edgeID", edge.ID()),
		zap.String("source", edge.Source().String()),
		zap.String("target", edge.Target().String()),
	)
	return edge, nil
}

// CancelConnection abandons the pending gesture with no mutation
// (release over empty canvas).
func (c *Controller) CancelConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting = nil
}

// Resize updates a card's size during the gesture for live feedback.
// Sizes below the configured minimum are clamped, never rejected.
func (c *Controller) Resize(id valueobjects.CardID, width, height float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.board.Card(id)
	if err != nil {
		return err
	}
	card.Resize(valueobjects.NewSize(width, height), c.cfg)
	return nil
}

// EndResize commits the final size once on gesture release
func (c *Controller) EndResize(id valueobjects.CardID, width, height float64) error {
	return c.Resize(id, width, height)
}

// UpdateCard merges a partial content update into a card
func (c *Controller) UpdateCard(id valueobjects.CardID, update entities.CardUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.UpdateCard(id, update)
}

// AddTodoItem appends a checklist entry to a to-do card
func (c *Controller) AddTodoItem(id valueobjects.CardID, text string) (entities.TodoItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.board.Card(id)
	if err != nil {
		return entities.TodoItem{}, err
	}
	return card.AddTodoItem(text, c.cfg)
}

// ToggleTodoItem flips completion of one checklist entry, preserving position
func (c *Controller) ToggleTodoItem(id valueobjects.CardID, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.board.Card(id)
	if err != nil {
		return err
	}
	return card.ToggleTodoItem(itemID)
}

// RemoveTodoItem deletes one checklist entry by its stable ID
func (c *Controller) RemoveTodoItem(id valueobjects.CardID, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.board.Card(id)
	if err != nil {
		return err
	}
	return card.RemoveTodoItem(itemID)
}

// BackfillLinkTitle fills a link card's title from fetched metadata when the
// user never set one. Reports whether the card changed.
func (c *Controller) BackfillLinkTitle(id valueobjects.CardID, title string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.board.Card(id)
	if err != nil {
		return false, err
	}
	return card.BackfillTitle(title), nil
}

// DeleteCard removes a card and cascades to its edges
func (c *Controller) DeleteCard(id valueobjects.CardID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteCardLocked(id)
}

// DeleteCardViaKeyboard handles the modifier+delete shortcut. It only fires
// when the card itself has focus: a backspace typed into a text field inside
// the card must never destroy the card.
func (c *Controller) DeleteCardViaKeyboard(id valueobjects.CardID, textFieldFocused bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if textFieldFocused {
		return nil
	}
	return c.deleteCardLocked(id)
}

func (c *Controller) deleteCardLocked(id valueobjects.CardID) error {
	if err := c.board.RemoveCard(id); err != nil {
		return err
	}
	delete(c.states, id)
	if c.connecting != nil && c.connecting.source.Equals(id) {
		c.connecting = nil
	}
	c.logger.Debug("card deleted", zap.String("cardID", id.String()))
	return nil
}

// UpdateEdgeLabel edits an edge's label in place
func (c *Controller) UpdateEdgeLabel(edgeID, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.UpdateEdgeLabel(edgeID, label)
}

// DeleteEdge removes an edge explicitly
func (c *Controller) DeleteEdge(edgeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.RemoveEdge(edgeID)
}

// DeleteAll clears every card and edge atomically and immediately flushes
// both persistence tiers instead of waiting for the next timer tick.
func (c *Controller) DeleteAll(ctx context.Context) error {
	c.mu.Lock()
	c.board.Clear()
	c.states = make(map[valueobjects.CardID]CardState)
	c.connecting = nil
	flusher := c.flusher
	c.mu.Unlock()

	c.logger.Info("board cleared", zap.String("boardID", c.board.ID().String()))

	if flusher != nil {
		return flusher.FlushNow(ctx)
	}
	return nil
}
