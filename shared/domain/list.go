package domain

import "time"

type List struct {
	Id        ListId
	BoardId   BoardId
	Title     ListTitle
	Order     OrderKey
	Revision  Revision
	CreatedAt time.Time
	Cards     []Card `json:",omitempty"`
}

// to iterate thru layers: handler -> service -> storage
type ListCreationData struct {
	BoardId  BoardId
	Title    ListTitle
	Position Position
}
