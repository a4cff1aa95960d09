package aggregates

import (
	"time"

	"boardcore/domain/core/entities"
)

// Snapshot is a point-in-time, read-only deep copy of the whole board used
// for serialization. Holders of a snapshot cannot mutate live board state;
// both persistence tiers read from the same snapshot per tick so each write
// reflects a consistent view, never a torn mix of two gesture states.
type Snapshot struct {
	BoardID     BoardID
	UserID      string
	Title       string
	Description string
	Cards       []*entities.Card
	Edges       []*entities.Edge
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot captures a structural copy of the board. Cards and edges are in
// insertion order for stable rendering downstream.
func (b *Board) Snapshot() Snapshot {
	cards := make([]*entities.Card, 0, len(b.cardOrder))
	for _, id := range b.cardOrder {
		cards = append(cards, b.cards[id].Clone())
	}
	edges := make([]*entities.Edge, 0, len(b.edgeOrder))
	for _, id := range b.edgeOrder {
		edges = append(edges, b.edges[id].Clone())
	}

	return Snapshot{
		BoardID:     b.id,
		UserID:      b.userID,
		Title:       b.title,
		Description: b.description,
		Cards:       cards,
		Edges:       edges,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	}
}
