package domain

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type (
	UserId = int64

	BoardId = uuid.UUID
	ListId  = uuid.UUID
	CardId  = uuid.UUID

	BoardTitle = string
	ListTitle  = string
	CardTitle  = string

	// OrderKey is a position in a dense ordering domain. Only the relative order of keys matters.
	OrderKey = float64
	Revision = int64

	Links = pq.StringArray // to save into postgres as text[]
)
