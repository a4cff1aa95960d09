package entities

import (
	"boardcore/domain/core/valueobjects"
	pkgerrors "boardcore/pkg/errors"

	"github.com/google/uuid"
)

// Edge is a labeled directed connection between two cards. Referential
// integrity (both endpoints exist, cascade on card delete) is enforced by
// the Board aggregate, not here.
type Edge struct {
	id           string
	source       valueobjects.CardID
	target       valueobjects.CardID
	sourceHandle valueobjects.Handle
	targetHandle valueobjects.Handle
	label        string
}

// NewEdge creates an edge with a fresh ID and an empty label. Omitted
// handles fall back to the gesture defaults (source right, target left).
func NewEdge(source, target valueobjects.CardID, sourceHandle, targetHandle valueobjects.Handle) (*Edge, error) {
	if source.IsZero() || target.IsZero() {
		return nil, pkgerrors.NewValidationError("edge endpoints cannot be empty")
	}
	sourceHandle, err := valueobjects.ParseHandle(sourceHandle.String(), valueobjects.DefaultSourceHandle)
	if err != nil {
		return nil, err
	}
	targetHandle, err = valueobjects.ParseHandle(targetHandle.String(), valueobjects.DefaultTargetHandle)
	if err != nil {
		return nil, err
	}

	return &Edge{
		id:           uuid.New().String(),
		source:       source,
		target:       target,
		sourceHandle: sourceHandle,
		targetHandle: targetHandle,
	}, nil
}

// ReconstructEdge recreates an edge from stored data
func ReconstructEdge(id string, source, target valueobjects.CardID, sourceHandle, targetHandle valueobjects.Handle, label string) (*Edge, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("edge ID cannot be empty")
	}
	edge, err := NewEdge(source, target, sourceHandle, targetHandle)
	if err != nil {
		return nil, err
	}
	edge.id = id
	edge.label = label
	return edge, nil
}

// ID returns the edge's unique identifier
func (e *Edge) ID() string {
	return e.id
}

// Source returns the source card's ID
func (e *Edge) Source() valueobjects.CardID {
	return e.source
}

// Target returns the target card's ID
func (e *Edge) Target() valueobjects.CardID {
	return e.target
}

// SourceHandle returns the attachment side on the source card
func (e *Edge) SourceHandle() valueobjects.Handle {
	return e.sourceHandle
}

// TargetHandle returns the attachment side on the target card
func (e *Edge) TargetHandle() valueobjects.Handle {
	return e.targetHandle
}

// Label returns the edge's freeform label, empty by default
func (e *Edge) Label() string {
	return e.label
}

// SetLabel updates the edge's label in place
func (e *Edge) SetLabel(label string) {
	e.label = label
}

// Touches checks whether the edge references the given card as source or target
func (e *Edge) Touches(cardID valueobjects.CardID) bool {
	return e.source.Equals(cardID) || e.target.Equals(cardID)
}

// Clone returns a copy with no aliasing
func (e *Edge) Clone() *Edge {
	clone := *e
	return &clone
}
