package entities

import (
	"strings"
	"time"

	"boardcore/domain/config"
	"boardcore/domain/core/valueobjects"
	pkgerrors "boardcore/pkg/errors"

	"github.com/google/uuid"
)

// CardType is the closed set of content variants a card can hold.
// A card's type is fixed at creation and never changes.
type CardType string

const (
	CardTypeNote  CardType = "note"
	CardTypeImage CardType = "image"
	CardTypeTodo  CardType = "todo"
	CardTypeLink  CardType = "link"
)

// IsValid checks membership in the closed type set
func (t CardType) IsValid() bool {
	switch t {
	case CardTypeNote, CardTypeImage, CardTypeTodo, CardTypeLink:
		return true
	default:
		return false
	}
}

// DefaultTitle returns the placeholder title a freshly created card gets
func (t CardType) DefaultTitle() string {
	switch t {
	case CardTypeNote:
		return "New Note"
	case CardTypeImage:
		return "New Image"
	case CardTypeTodo:
		return "New To-do"
	case CardTypeLink:
		return "New Link"
	default:
		return "New Item"
	}
}

// notePlaceholderHTML seeds the rich-text body of a new note card
const notePlaceholderHTML = "<p>Click to add content...</p>"

// todoDoneMarker is the legacy completion prefix used when todo items are
// flattened to plain detail strings for persistence compatibility.
const todoDoneMarker = "[x] "

// TodoItem is a single checklist entry with a stable identity, so toggling
// and removal never depend on slice indices.
type TodoItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Card is a positioned, typed content unit on a board
type Card struct {
	id        valueobjects.CardID
	cardType  CardType
	position  valueobjects.Position
	size      valueobjects.Size
	content   string
	details   []string
	html      string
	todoItems []TodoItem
	createdAt time.Time
	updatedAt time.Time
}

// NewCard creates a card with type-appropriate defaults at the given position
func NewCard(cardType CardType, position valueobjects.Position) (*Card, error) {
	if !cardType.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown card type: " + string(cardType))
	}

	now := time.Now()
	card := &Card{
		id:        valueobjects.NewCardID(),
		cardType:  cardType,
		position:  position,
		content:   cardType.DefaultTitle(),
		details:   []string{},
		createdAt: now,
		updatedAt: now,
	}

	if cardType == CardTypeNote {
		card.html = notePlaceholderHTML
	}
	if cardType == CardTypeTodo {
		card.todoItems = []TodoItem{}
	}

	return card, nil
}

// ReconstructCard recreates a card from stored data with preserved timestamps
func ReconstructCard(
	id valueobjects.CardID,
	cardType CardType,
	position valueobjects.Position,
	size valueobjects.Size,
	content string,
	details []string,
	html string,
	todoItems []TodoItem,
	createdAt, updatedAt time.Time,
) (*Card, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("card ID cannot be empty")
	}
	if !cardType.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown card type: " + string(cardType))
	}

	card := &Card{
		id:        id,
		cardType:  cardType,
		position:  position,
		size:      size,
		content:   content,
		details:   append([]string{}, details...),
		html:      html,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}

	if cardType == CardTypeTodo {
		if todoItems != nil {
			card.todoItems = append([]TodoItem{}, todoItems...)
		} else {
			// Legacy boards encode completion as a detail-string prefix
			card.todoItems = DecodeTodoDetails(details)
		}
	}

	return card, nil
}

// ID returns the card's unique identifier
func (c *Card) ID() valueobjects.CardID {
	return c.id
}

// Type returns the card's content variant
func (c *Card) Type() CardType {
	return c.cardType
}

// Position returns the card's canvas position
func (c *Card) Position() valueobjects.Position {
	return c.position
}

// Size returns the card's size; the zero value means "not resized yet"
func (c *Card) Size() valueobjects.Size {
	return c.size
}

// Content returns the card's short title string
func (c *Card) Content() string {
	return c.content
}

// Details returns the card's detail strings
func (c *Card) Details() []string {
	details := make([]string, len(c.details))
	copy(details, c.details)
	return details
}

// HTML returns the serialized rich-text body. For note cards a non-empty
// HTML body is authoritative over Content/Details.
func (c *Card) HTML() string {
	return c.html
}

// CreatedAt returns when the card was created
func (c *Card) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the card was last updated
func (c *Card) UpdatedAt() time.Time {
	return c.updatedAt
}

// CardUpdate is a partial update to a card's mutable fields. Nil fields are
// left untouched; type and ID are not updatable by design.
type CardUpdate struct {
	Content  *string
	Details  []string
	HTML     *string
	Position *valueobjects.Position
	Size     *valueobjects.Size
}

// IsEmpty checks whether the update would change nothing
func (u CardUpdate) IsEmpty() bool {
	return u.Content == nil && u.Details == nil && u.HTML == nil &&
		u.Position == nil && u.Size == nil
}

// ApplyUpdate merges the provided fields into the card. Validation happens
// up front so a failed update leaves the card unmodified.
func (c *Card) ApplyUpdate(update CardUpdate, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if update.Content != nil && len(*update.Content) > cfg.MaxTitleLength {
		return pkgerrors.NewValidationError("card title exceeds maximum length")
	}
	if update.Details != nil {
		for _, d := range update.Details {
			if len(d) > cfg.MaxDetailLength {
				return pkgerrors.NewValidationError("card detail exceeds maximum length")
			}
		}
	}
	if update.HTML != nil && len(*update.HTML) > cfg.MaxDetailLength {
		return pkgerrors.NewValidationError("card body exceeds maximum length")
	}

	if update.Content != nil {
		c.content = *update.Content
	}
	if update.Details != nil {
		c.details = append([]string{}, update.Details...)
		if c.cardType == CardTypeTodo {
			c.todoItems = DecodeTodoDetails(update.Details)
		}
	}
	if update.HTML != nil {
		c.html = *update.HTML
	}
	if update.Position != nil {
		c.position = *update.Position
	}
	if update.Size != nil {
		c.size = update.Size.ClampMin(cfg.MinCardWidth, cfg.MinCardHeight)
	}

	c.updatedAt = time.Now()
	return nil
}

// MoveTo moves the card to a new canvas position
func (c *Card) MoveTo(position valueobjects.Position) {
	if position.Equals(c.position) {
		return
	}
	c.position = position
	c.updatedAt = time.Now()
}

// Resize sets the card's size, clamped to the configured minimum
func (c *Card) Resize(size valueobjects.Size, cfg *config.DomainConfig) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	clamped := size.ClampMin(cfg.MinCardWidth, cfg.MinCardHeight)
	if clamped.Equals(c.size) {
		return
	}
	c.size = clamped
	c.updatedAt = time.Now()
}

// URL returns the target URL for link and image cards
func (c *Card) URL() string {
	if len(c.details) == 0 {
		return ""
	}
	return c.details[0]
}

// SetURL sets the target URL for link and image cards
func (c *Card) SetURL(url string) error {
	if c.cardType != CardTypeLink && c.cardType != CardTypeImage {
		return pkgerrors.NewValidationError("card type has no URL")
	}
	if len(c.details) == 0 {
		c.details = []string{url}
	} else {
		c.details[0] = url
	}
	c.updatedAt = time.Now()
	return nil
}

// BackfillTitle sets the display title of a link card from fetched metadata,
// but only when the user never set one. Preview data otherwise stays in UI
// state and is never written back into the card.
func (c *Card) BackfillTitle(title string) bool {
	if c.cardType != CardTypeLink || title == "" {
		return false
	}
	if c.content != "" && c.content != c.cardType.DefaultTitle() {
		return false
	}
	c.content = title
	c.updatedAt = time.Now()
	return true
}

// TodoItems returns the card's checklist entries
func (c *Card) TodoItems() []TodoItem {
	items := make([]TodoItem, len(c.todoItems))
	copy(items, c.todoItems)
	return items
}

// AddTodoItem appends a checklist entry with a fresh stable ID
func (c *Card) AddTodoItem(text string, cfg *config.DomainConfig) (TodoItem, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if c.cardType != CardTypeTodo {
		return TodoItem{}, pkgerrors.NewValidationError("card is not a to-do card")
	}
	if strings.TrimSpace(text) == "" {
		return TodoItem{}, pkgerrors.NewValidationError("to-do item text cannot be empty")
	}
	if len(c.todoItems) >= cfg.MaxTodoItems {
		return TodoItem{}, pkgerrors.NewValidationError("maximum to-do items reached")
	}

	item := TodoItem{ID: uuid.New().String(), Text: text}
	c.todoItems = append(c.todoItems, item)
	c.syncTodoDetails()
	return item, nil
}

// ToggleTodoItem flips the completion state of one checklist entry in place,
// preserving its position.
func (c *Card) ToggleTodoItem(itemID string) error {
	if c.cardType != CardTypeTodo {
		return pkgerrors.NewValidationError("card is not a to-do card")
	}
	for i := range c.todoItems {
		if c.todoItems[i].ID == itemID {
			c.todoItems[i].Completed = !c.todoItems[i].Completed
			c.syncTodoDetails()
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("to-do item")
}

// RemoveTodoItem deletes one checklist entry by its stable ID
func (c *Card) RemoveTodoItem(itemID string) error {
	if c.cardType != CardTypeTodo {
		return pkgerrors.NewValidationError("card is not a to-do card")
	}
	for i := range c.todoItems {
		if c.todoItems[i].ID == itemID {
			c.todoItems = append(c.todoItems[:i], c.todoItems[i+1:]...)
			c.syncTodoDetails()
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("to-do item")
}

// syncTodoDetails keeps the flattened detail strings aligned with the
// checklist so legacy consumers of the persisted shape still work.
func (c *Card) syncTodoDetails() {
	c.details = EncodeTodoDetails(c.todoItems)
	c.updatedAt = time.Now()
}

// Clone returns a deep structural copy with no aliasing
func (c *Card) Clone() *Card {
	clone := *c
	clone.details = append([]string{}, c.details...)
	if c.todoItems != nil {
		clone.todoItems = append([]TodoItem{}, c.todoItems...)
	}
	return &clone
}

// EncodeTodoDetails flattens checklist entries to the legacy detail-string
// form, marking completed entries with a reserved prefix.
func EncodeTodoDetails(items []TodoItem) []string {
	details := make([]string, 0, len(items))
	for _, item := range items {
		if item.Completed {
			details = append(details, todoDoneMarker+item.Text)
		} else {
			details = append(details, item.Text)
		}
	}
	return details
}

// DecodeTodoDetails parses legacy detail strings into checklist entries,
// assigning fresh stable IDs.
func DecodeTodoDetails(details []string) []TodoItem {
	items := make([]TodoItem, 0, len(details))
	for _, detail := range details {
		item := TodoItem{ID: uuid.New().String(), Text: detail}
		if strings.HasPrefix(detail, todoDoneMarker) {
			item.Text = strings.TrimPrefix(detail, todoDoneMarker)
			item.Completed = true
		}
		items = append(items, item)
	}
	return items
}
