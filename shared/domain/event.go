package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityBoard EntityType = "board"
	EntityList  EntityType = "list"
	EntityCard  EntityType = "card"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpMove   Operation = "move"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// ReindexedKey is a sibling whose key was rewritten by a reindex in the same commit.
type ReindexedKey struct {
	EntityId uuid.UUID `json:"entityId"`
	OrderKey OrderKey  `json:"orderKey"`
	Revision Revision  `json:"revision"`
}

// BoardEvent describes one committed mutation. It carries everything a subscriber needs to
// apply it without consulting arrival order.
type BoardEvent struct {
	BoardId    BoardId        `json:"boardId"`
	EntityType EntityType     `json:"entityType"`
	EntityId   uuid.UUID      `json:"entityId"`
	Operation  Operation      `json:"operation"`
	OrderKey   OrderKey       `json:"orderKey"`
	ParentId   *uuid.UUID     `json:"parentId,omitempty"`
	Revision   Revision       `json:"revision"`
	Title      string         `json:"title,omitempty"`
	Reindexed  []ReindexedKey `json:"reindexed,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}
