package ports

import (
	"time"

	"boardcore/domain/config"
	"boardcore/domain/core/aggregates"
	"boardcore/domain/core/entities"
	"boardcore/domain/core/valueobjects"
)

// BoardRecord is the persisted board document shape shared by the remote
// repository, the local cache tier, and the REST surface.
type BoardRecord struct {
	ID          string       `json:"id" dynamodbav:"BoardID"`
	Title       string       `json:"title" dynamodbav:"Title"`
	Description string       `json:"description" dynamodbav:"Description"`
	UserID      string       `json:"userId" dynamodbav:"UserID"`
	Cards       []CardRecord `json:"cards" dynamodbav:"Cards"`
	Edges       []EdgeRecord `json:"edges" dynamodbav:"Edges"`
	CreatedAt   time.Time    `json:"createdAt" dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time    `json:"updatedAt" dynamodbav:"UpdatedAt"`
}

// CardRecord flattens a card for persistence: title/description/position at
// the top level for listing surfaces, the full payload in Data.
type CardRecord struct {
	ID          string         `json:"id" dynamodbav:"CardID"`
	Title       string         `json:"title" dynamodbav:"Title"`
	Description string         `json:"description" dynamodbav:"Description"`
	Position    PositionRecord `json:"position" dynamodbav:"Position"`
	Width       float64        `json:"width,omitempty" dynamodbav:"Width,omitempty"`
	Height      float64        `json:"height,omitempty" dynamodbav:"Height,omitempty"`
	Type        string         `json:"type" dynamodbav:"CardType"`
	Data        CardData       `json:"data" dynamodbav:"Data"`
	CreatedAt   time.Time      `json:"createdAt" dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time      `json:"updatedAt" dynamodbav:"UpdatedAt"`
}

// CardData is the full typed payload of a card
type CardData struct {
	Type      string              `json:"type" dynamodbav:"Type"`
	Content   string              `json:"content" dynamodbav:"Content"`
	Details   []string            `json:"details" dynamodbav:"Details"`
	HTML      string              `json:"html,omitempty" dynamodbav:"HTML,omitempty"`
	TodoItems []entities.TodoItem `json:"todoItems,omitempty" dynamodbav:"TodoItems,omitempty"`
}

// PositionRecord is a card's canvas position on the wire
type PositionRecord struct {
	X float64 `json:"x" dynamodbav:"X"`
	Y float64 `json:"y" dynamodbav:"Y"`
}

// EdgeRecord is a persisted edge
type EdgeRecord struct {
	ID           string `json:"id" dynamodbav:"EdgeID"`
	Source       string `json:"source" dynamodbav:"Source"`
	Target       string `json:"target" dynamodbav:"Target"`
	SourceHandle string `json:"sourceHandle,omitempty" dynamodbav:"SourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" dynamodbav:"TargetHandle,omitempty"`
	Label        string `json:"label,omitempty" dynamodbav:"Label,omitempty"`
}

// EncodeSnapshot serializes a board snapshot into the persisted document
// shape. Card order and edge order are preserved.
func EncodeSnapshot(snapshot aggregates.Snapshot) *BoardRecord {
	record := &BoardRecord{
		ID:          snapshot.BoardID.String(),
		Title:       snapshot.Title,
		Description: snapshot.Description,
		UserID:      snapshot.UserID,
		Cards:       make([]CardRecord, 0, len(snapshot.Cards)),
		Edges:       make([]EdgeRecord, 0, len(snapshot.Edges)),
		CreatedAt:   snapshot.CreatedAt,
		UpdatedAt:   snapshot.UpdatedAt,
	}

	for _, card := range snapshot.Cards {
		record.Cards = append(record.Cards, encodeCard(card))
	}
	for _, edge := range snapshot.Edges {
		record.Edges = append(record.Edges, EdgeRecord{
			ID:           edge.ID(),
			Source:       edge.Source().String(),
			Target:       edge.Target().String(),
			SourceHandle: edge.SourceHandle().String(),
			TargetHandle: edge.TargetHandle().String(),
			Label:        edge.Label(),
		})
	}

	return record
}

func encodeCard(card *entities.Card) CardRecord {
	rec := CardRecord{
		ID:       card.ID().String(),
		Title:    card.Content(),
		Position: PositionRecord{X: card.Position().X(), Y: card.Position().Y()},
		Type:     string(card.Type()),
		Data: CardData{
			Type:    string(card.Type()),
			Content: card.Content(),
			Details: card.Details(),
			HTML:    card.HTML(),
		},
		CreatedAt: card.CreatedAt(),
		UpdatedAt: card.UpdatedAt(),
	}

	if details := card.Details(); len(details) > 0 {
		rec.Description = joinLines(details)
	}
	if !card.Size().IsZero() {
		rec.Width = card.Size().Width()
		rec.Height = card.Size().Height()
	}
	if card.Type() == entities.CardTypeTodo {
		rec.Data.TodoItems = card.TodoItems()
	}

	return rec
}

// DecodeBoard reconstructs a board aggregate from a persisted document.
// Edges that reference a missing card are dropped: an edge whose endpoint no
// longer exists must not exist, and the cascade on delete means a well-formed
// document never contains one.
func DecodeBoard(record *BoardRecord, cfg *config.DomainConfig) (*aggregates.Board, error) {
	board, err := aggregates.ReconstructBoard(
		aggregates.BoardID(record.ID),
		record.UserID,
		record.Title,
		record.Description,
		record.CreatedAt,
		record.UpdatedAt,
		cfg,
	)
	if err != nil {
		return nil, err
	}

	for _, cardRec := range record.Cards {
		card, err := decodeCard(cardRec)
		if err != nil {
			return nil, err
		}
		if err := board.LoadCard(card); err != nil {
			return nil, err
		}
	}

	for _, edgeRec := range record.Edges {
		source, err := valueobjects.NewCardIDFromString(edgeRec.Source)
		if err != nil {
			continue
		}
		target, err := valueobjects.NewCardIDFromString(edgeRec.Target)
		if err != nil {
			continue
		}
		edge, err := entities.ReconstructEdge(
			edgeRec.ID,
			source,
			target,
			valueobjects.Handle(edgeRec.SourceHandle),
			valueobjects.Handle(edgeRec.TargetHandle),
			edgeRec.Label,
		)
		if err != nil {
			continue
		}
		// LoadEdge rejects dangling references; drop, don't fail the load.
		_ = board.LoadEdge(edge)
	}

	return board, nil
}

func decodeCard(rec CardRecord) (*entities.Card, error) {
	id, err := valueobjects.NewCardIDFromString(rec.ID)
	if err != nil {
		return nil, err
	}

	cardType := entities.CardType(rec.Data.Type)
	if rec.Data.Type == "" {
		cardType = entities.CardType(rec.Type)
	}

	var size valueobjects.Size
	if rec.Width > 0 || rec.Height > 0 {
		size = valueobjects.NewSize(rec.Width, rec.Height)
	}

	content := rec.Data.Content
	if content == "" {
		content = rec.Title
	}

	return entities.ReconstructCard(
		id,
		cardType,
		valueobjects.NewPosition(rec.Position.X, rec.Position.Y),
		size,
		content,
		rec.Data.Details,
		rec.Data.HTML,
		rec.Data.TodoItems,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
}

func joinLines(lines []string) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}
