package domain

import (
	"time"
)

type BoardMetadata struct {
	Id        BoardId
	Owner     UserId
	Title     BoardTitle
	CreatedAt time.Time
}

// Board is a full snapshot: lists sorted by order key, each with its cards sorted by order key.
type Board struct {
	BoardMetadata
	Lists []List
}
