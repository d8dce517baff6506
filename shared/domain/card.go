package domain

import "time"

type Priority int16

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

// CardFields is the payload of a card that plays no role in ordering.
type CardFields struct {
	Title           CardTitle
	Description     string
	DescriptionHTML string
	Priority        Priority
	DueDate         *time.Time
	Links           Links
}

type Card struct {
	Id     CardId
	ListId ListId
	CardFields
	Order     OrderKey
	Revision  Revision
	CreatedAt time.Time
}

type CardCreationData struct {
	ListId   ListId
	Fields   CardFields
	Position Position
}

// CardUpdateData carries only the fields the caller wants to change.
type CardUpdateData struct {
	Title       *CardTitle
	Description *string
	Priority    *Priority
	DueDate     *time.Time
	ClearDue    bool
	Links       *Links
}
