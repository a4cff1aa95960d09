package aggregates

import (
	"time"

	"boardcore/domain/config"
	"boardcore/domain/core/entities"
	"boardcore/domain/core/valueobjects"
	pkgerrors "boardcore/pkg/errors"

	"github.com/google/uuid"
)

// BoardID represents a unique board identifier
type BoardID string

// NewBoardID creates a new random BoardID
func NewBoardID() BoardID {
	return BoardID(uuid.New().String())
}

// String returns the string representation
func (id BoardID) String() string {
	return string(id)
}

// Board is the aggregate root for one user's canvas. It is the authoritative
// in-memory graph of cards and edges for exactly one board at a time and
// ensures consistency boundaries for the whole graph: every mutation either
// fully applies or leaves the board untouched.
//
// Maps give O(1) lookup; the order slices preserve insertion order, which is
// guaranteed only for display determinism (minimap and z-order rendering),
// never for correctness.
type Board struct {
	id          BoardID
	userID      string
	title       string
	description string
	cards       map[valueobjects.CardID]*entities.Card
	edges       map[string]*entities.Edge
	cardOrder   []valueobjects.CardID
	edgeOrder   []string
	cfg         *config.DomainConfig
	createdAt   time.Time
	updatedAt   time.Time
}

// NewBoard creates an empty board aggregate
func NewBoard(userID, title, description string, cfg *config.DomainConfig) (*Board, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID required")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("board title required")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	now := time.Now()
	return &Board{
		id:          NewBoardID(),
		userID:      userID,
		title:       title,
		description: description,
		cards:       make(map[valueobjects.CardID]*entities.Card),
		edges:       make(map[string]*entities.Edge),
		cfg:         cfg,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructBoard recreates an empty board shell from stored metadata.
// Cards and edges are loaded afterwards via LoadCard and LoadEdge.
func ReconstructBoard(id BoardID, userID, title, description string, createdAt, updatedAt time.Time, cfg *config.DomainConfig) (*Board, error) {
	if id == "" || userID == "" {
		return nil, pkgerrors.NewValidationError("required fields missing for board reconstruction")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	return &Board{
		id:          id,
		userID:      userID,
		title:       title,
		description: description,
		cards:       make(map[valueobjects.CardID]*entities.Card),
		edges:       make(map[string]*entities.Edge),
		cfg:         cfg,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// ID returns the board's unique identifier
func (b *Board) ID() BoardID {
	return b.id
}

// UserID returns the owner's ID
func (b *Board) UserID() string {
	return b.userID
}

// Title returns the board's title
func (b *Board) Title() string {
	return b.title
}

// Description returns the board's description
func (b *Board) Description() string {
	return b.description
}

// CreatedAt returns when the board was created
func (b *Board) CreatedAt() time.Time {
	return b.createdAt
}

// UpdatedAt returns when the board was last updated
func (b *Board) UpdatedAt() time.Time {
	return b.updatedAt
}

// CardCount returns the number of cards on the board
func (b *Board) CardCount() int {
	return len(b.cards)
}

// EdgeCount returns the number of edges on the board
func (b *Board) EdgeCount() int {
	return len(b.edges)
}

// AddCard creates a card with type-appropriate defaults at the given position
func (b *Board) AddCard(cardType entities.CardType, position valueobjects.Position) (*entities.Card, error) {
	if len(b.cards) >= b.cfg.MaxCardsPerBoard {
		return nil, pkgerrors.NewValidationError("maximum cards reached")
	}

	card, err := entities.NewCard(cardType, position)
	if err != nil {
		return nil, err
	}

	b.cards[card.ID()] = card
	b.cardOrder = append(b.cardOrder, card.ID())
	b.touch()
	return card, nil
}

// LoadCard places a reconstructed card on the board during initial load
func (b *Board) LoadCard(card *entities.Card) error {
	if card == nil {
		return pkgerrors.NewValidationError("card cannot be nil")
	}
	if _, exists := b.cards[card.ID()]; exists {
		return pkgerrors.NewConflictError("card already exists on board")
	}
	if len(b.cards) >= b.cfg.MaxCardsPerBoard {
		return pkgerrors.NewValidationError("maximum cards reached")
	}

	b.cards[card.ID()] = card
	b.cardOrder = append(b.cardOrder, card.ID())
	return nil
}

// Card retrieves a card by ID
func (b *Board) Card(id valueobjects.CardID) (*entities.Card, error) {
	card, exists := b.cards[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("card")
	}
	return card, nil
}

// HasCard checks if a card exists on the board without error
func (b *Board) HasCard(id valueobjects.CardID) bool {
	_, exists := b.cards[id]
	return exists
}

// Cards returns all cards in insertion order
func (b *Board) Cards() []*entities.Card {
	cards := make([]*entities.Card, 0, len(b.cardOrder))
	for _, id := range b.cardOrder {
		cards = append(cards, b.cards[id])
	}
	return cards
}

// UpdateCard merges the provided fields into an existing card. Type and ID
// never change; an unknown ID fails with NotFound and changes nothing.
func (b *Board) UpdateCard(id valueobjects.CardID, update entities.CardUpdate) error {
	card, exists := b.cards[id]
	if !exists {
		return pkgerrors.NewNotFoundError("card")
	}
	if err := card.ApplyUpdate(update, b.cfg); err != nil {
		return err
	}
	b.touch()
	return nil
}

// RemoveCard removes a card and, atomically with it, every edge whose source
// or target is that card. No dangling references are ever tolerated.
func (b *Board) RemoveCard(id valueobjects.CardID) error {
	if _, exists := b.cards[id]; !exists {
		return pkgerrors.NewNotFoundError("card")
	}

	for edgeID, edge := range b.edges {
		if edge.Touches(id) {
			delete(b.edges, edgeID)
			b.edgeOrder = removeString(b.edgeOrder, edgeID)
		}
	}

	delete(b.cards, id)
	b.cardOrder = removeCardID(b.cardOrder, id)
	b.touch()
	return nil
}

// Connect creates an edge between two cards. Both endpoints must exist, and
// self-loops are rejected unless the domain configuration allows them.
// Omitted handles default to source "right" and target "left".
func (b *Board) Connect(sourceID, targetID valueobjects.CardID, sourceHandle, targetHandle valueobjects.Handle) (*entities.Edge, error) {
	if _, exists := b.cards[sourceID]; !exists {
		return nil, pkgerrors.NewInvalidReferenceError("source card does not exist: " + sourceID.String())
	}
	if _, exists := b.cards[targetID]; !exists {
		return nil, pkgerrors.NewInvalidReferenceError("target card does not exist: " + targetID.String())
	}
	if !b.cfg.AllowSelfConnections && sourceID.Equals(targetID) {
		return nil, pkgerrors.NewSelfLoopError(sourceID.String())
	}
	if !b.cfg.AllowDuplicateEdges {
		for _, edge := range b.edges {
			if edge.Source().Equals(sourceID) && edge.Target().Equals(targetID) {
				return nil, pkgerrors.NewConflictError("edge already exists")
			}
		}
	}
	if len(b.edges) >= b.cfg.MaxEdgesPerBoard {
		return nil, pkgerrors.NewValidationError("maximum edges reached")
	}

	edge, err := entities.NewEdge(sourceID, targetID, sourceHandle, targetHandle)
	if err != nil {
		return nil, err
	}

	b.edges[edge.ID()] = edge
	b.edgeOrder = append(b.edgeOrder, edge.ID())
	b.touch()
	return edge, nil
}

// LoadEdge places a reconstructed edge on the board during initial load.
// Edges referencing missing cards are rejected, never silently kept.
func (b *Board) LoadEdge(edge *entities.Edge) error {
	if edge == nil {
		return pkgerrors.NewValidationError("edge cannot be nil")
	}
	if _, exists := b.edges[edge.ID()]; exists {
		return pkgerrors.NewConflictError("edge already exists on board")
	}
	if _, exists := b.cards[edge.Source()]; !exists {
		return pkgerrors.NewInvalidReferenceError("edge references missing source card: " + edge.Source().String())
	}
	if _, exists := b.cards[edge.Target()]; !exists {
		return pkgerrors.NewInvalidReferenceError("edge references missing target card: " + edge.Target().String())
	}

	b.edges[edge.ID()] = edge
	b.edgeOrder = append(b.edgeOrder, edge.ID())
	return nil
}

// Edge retrieves an edge by ID
func (b *Board) Edge(id string) (*entities.Edge, error) {
	edge, exists := b.edges[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("edge")
	}
	return edge, nil
}

// Edges returns all edges in insertion order
func (b *Board) Edges() []*entities.Edge {
	edges := make([]*entities.Edge, 0, len(b.edgeOrder))
	for _, id := range b.edgeOrder {
		edges = append(edges, b.edges[id])
	}
	return edges
}

// UpdateEdgeLabel edits an edge's label in place
func (b *Board) UpdateEdgeLabel(id, label string) error {
	edge, exists := b.edges[id]
	if !exists {
		return pkgerrors.NewNotFoundError("edge")
	}
	if len(label) > b.cfg.MaxLabelLength {
		return pkgerrors.NewValidationError("edge label exceeds maximum length")
	}
	edge.SetLabel(label)
	b.touch()
	return nil
}

// RemoveEdge removes an edge
func (b *Board) RemoveEdge(id string) error {
	if _, exists := b.edges[id]; !exists {
		return pkgerrors.NewNotFoundError("edge")
	}
	delete(b.edges, id)
	b.edgeOrder = removeString(b.edgeOrder, id)
	b.touch()
	return nil
}

// Clear removes every card and edge in one atomic operation
func (b *Board) Clear() {
	b.cards = make(map[valueobjects.CardID]*entities.Card)
	b.edges = make(map[string]*entities.Edge)
	b.cardOrder = nil
	b.edgeOrder = nil
	b.touch()
}

// SetTitle updates the board's title
func (b *Board) SetTitle(title string) error {
	if title == "" {
		return pkgerrors.NewValidationError("board title required")
	}
	b.title = title
	b.touch()
	return nil
}

// SetDescription updates the board's description
func (b *Board) SetDescription(description string) {
	b.description = description
	b.touch()
}

// ApplyServerMetadata replaces the board metadata with the repository's
// returned representation after a successful remote save. The server is
// authoritative for updatedAt and any server-computed fields.
func (b *Board) ApplyServerMetadata(title, description string, updatedAt time.Time) {
	if title != "" {
		b.title = title
	}
	b.description = description
	b.updatedAt = updatedAt
}

// Validate ensures board invariants: no edge may reference a missing card
func (b *Board) Validate() error {
	for _, edge := range b.edges {
		if _, exists := b.cards[edge.Source()]; !exists {
			return pkgerrors.NewInvalidReferenceError("edge references non-existent source card")
		}
		if _, exists := b.cards[edge.Target()]; !exists {
			return pkgerrors.NewInvalidReferenceError("edge references non-existent target card")
		}
	}
	return nil
}

func (b *Board) touch() {
	b.updatedAt = time.Now()
}

func removeCardID(ids []valueobjects.CardID, id valueobjects.CardID) []valueobjects.CardID {
	for i := range ids {
		if ids[i].Equals(id) {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeString(ids []string, id string) []string {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
