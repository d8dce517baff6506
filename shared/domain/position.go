package domain

import "github.com/google/uuid"

// Position names the siblings an item should end up between.
// Zero value means "end of container".
type Position struct {
	After  *uuid.UUID
	Before *uuid.UUID
}

func (p Position) IsEnd() bool {
	return p.After == nil && p.Before == nil
}

// Sibling is the ordering-relevant projection of a list or card.
type Sibling struct {
	Id       uuid.UUID
	Order    OrderKey
	Revision Revision
}
