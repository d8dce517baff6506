package api

import (
	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/shared/domain"
)

// Position names the siblings the item should end up between.
// Both empty means the end of the container.
type Position struct {
	After  *uuid.UUID `json:"after,omitempty"`
	Before *uuid.UUID `json:"before,omitempty"`
}

func (p Position) ToDomain() domain.Position {
	return domain.Position{After: p.After, Before: p.Before}
}
