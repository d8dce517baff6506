package service

import (
	"context"

	"github.com/itchan-dev/boardsync/shared/domain"
)

// Store runs fn inside one ACID transaction. Implementations map write conflicts
// (serialization failures, deadlocks, key collisions) to errors.ErrWriteConflict and
// missing rows to errors.ErrNotFound.
type Store interface {
	Transactionally(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the storage view available inside a transaction. Sibling reads are sorted by order key.
type Tx interface {
	OwnerReader

	CreateBoard(ctx context.Context, board domain.BoardMetadata) error
	// LockBoard serializes changes to the order of the board's lists.
	LockBoard(ctx context.Context, id domain.BoardId) error
	GetBoard(ctx context.Context, id domain.BoardId) (*domain.Board, error)
	ListBoards(ctx context.Context, owner domain.UserId) ([]domain.BoardMetadata, error)
	DeleteBoard(ctx context.Context, id domain.BoardId) error

	GetList(ctx context.Context, id domain.ListId) (*domain.List, error)
	// LockLists serializes changes to the order of the lists' cards. Fails with ErrNotFound
	// if any of the lists is gone.
	LockLists(ctx context.Context, ids ...domain.ListId) error
	ListSiblings(ctx context.Context, boardId domain.BoardId) ([]domain.Sibling, error)
	InsertList(ctx context.Context, list domain.List) error
	RenameList(ctx context.Context, id domain.ListId, title domain.ListTitle) (domain.Revision, error)
	// SetListOrders writes new keys and returns the rows with their bumped revisions.
	SetListOrders(ctx context.Context, keys []domain.Sibling) ([]domain.Sibling, error)
	DeleteList(ctx context.Context, id domain.ListId) error

	GetCard(ctx context.Context, id domain.CardId) (*domain.Card, error)
	CardSiblings(ctx context.Context, listId domain.ListId) ([]domain.Sibling, error)
	InsertCard(ctx context.Context, card domain.Card) error
	UpdateCardFields(ctx context.Context, id domain.CardId, fields domain.CardFields) (domain.Revision, error)
	// PlaceCard sets parent list and key of a card in one write.
	PlaceCard(ctx context.Context, id domain.CardId, listId domain.ListId, key domain.OrderKey) (domain.Revision, error)
	SetCardOrders(ctx context.Context, keys []domain.Sibling) ([]domain.Sibling, error)
	DeleteCard(ctx context.Context, id domain.CardId) error
}

// EventPublisher delivers committed mutations to board subscribers. It never fails the caller:
// delivery problems are the publisher's to log.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.BoardEvent)
}
