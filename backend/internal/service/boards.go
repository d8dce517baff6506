package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/backend/internal/order"
	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
	"github.com/itchan-dev/boardsync/shared/logger"
)

// a conflicting mutation is tried once more with fresh neighbor keys
const maxAttempts = 2

// to mock service in tests
type BoardService interface {
	CreateBoard(ctx context.Context, user *domain.User, title domain.BoardTitle) (*domain.BoardMetadata, error)
	GetBoard(ctx context.Context, user *domain.User, id domain.BoardId) (*domain.Board, error)
	ListBoards(ctx context.Context, user *domain.User) ([]domain.BoardMetadata, error)
	DeleteBoard(ctx context.Context, user *domain.User, id domain.BoardId) error

	CreateList(ctx context.Context, user *domain.User, data domain.ListCreationData) (*domain.List, error)
	UpdateList(ctx context.Context, user *domain.User, id domain.ListId, title domain.ListTitle) (*domain.List, error)
	ReorderList(ctx context.Context, user *domain.User, id domain.ListId, pos domain.Position) (*domain.List, error)
	DeleteList(ctx context.Context, user *domain.User, id domain.ListId) error

	CreateCard(ctx context.Context, user *domain.User, data domain.CardCreationData) (*domain.Card, error)
	UpdateCard(ctx context.Context, user *domain.User, id domain.CardId, data domain.CardUpdateData) (*domain.Card, error)
	MoveCard(ctx context.Context, user *domain.User, id domain.CardId, targetList domain.ListId, pos domain.Position) (*domain.Card, error)
	DeleteCard(ctx context.Context, user *domain.User, id domain.CardId) error
}

type Validator interface {
	Title(title string) error
	Description(text string) error
	Priority(p domain.Priority) error
	Links(links domain.Links) error
}

type Renderer interface {
	Render(text string) string
}

// Boards is the board mutation service. Every operation runs in one storage transaction,
// authorizes the caller inside it and publishes its events only after commit.
type Boards struct {
	store     Store
	events    EventPublisher
	auth      *Authorizer
	order     *order.Allocator
	validator Validator
	renderer  Renderer
	now       func() time.Time
}

var _ BoardService = (*Boards)(nil)

func NewBoards(store Store, events EventPublisher, alloc *order.Allocator, validator Validator, renderer Renderer) *Boards {
	return &Boards{
		store:     store,
		events:    events,
		auth:      &Authorizer{},
		order:     alloc,
		validator: validator,
		renderer:  renderer,
		now:       time.Now,
	}
}

// mutate runs fn transactionally, retrying once on a write conflict, and publishes the
// events fn produced on its successful attempt.
func (b *Boards) mutate(ctx context.Context, op string, fn func(tx Tx, emit func(domain.BoardEvent)) error) error {
	for attempt := 1; ; attempt++ {
		var events []domain.BoardEvent
		err := b.store.Transactionally(ctx, func(tx Tx) error {
			events = events[:0]
			return fn(tx, func(e domain.BoardEvent) { events = append(events, e) })
		})
		if err == nil {
			if len(events) > 0 {
				b.events.Publish(ctx, events...)
			}
			return nil
		}
		if !errors.Is(err, internal_errors.ErrWriteConflict) {
			return err
		}
		if attempt == maxAttempts {
			conflictExhausted.WithLabelValues(op).Inc()
			logger.Log.Warn("write conflict persisted after retry", "operation", op, "error", err)
			return fmt.Errorf("%s: %w", op, internal_errors.ErrConflictRetryExhausted)
		}
		conflictRetries.WithLabelValues(op).Inc()
		logger.Log.Debug("retrying mutation after write conflict", "operation", op, "error", err)
	}
}

// allocate returns the key for an item placed into siblings at pos. If the gap at pos is
// exhausted the container is respaced first and the respaced keys are returned as well;
// the caller must persist them in the same transaction.
func (b *Boards) allocate(container string, siblings []domain.Sibling, pos domain.Position) (domain.OrderKey, []domain.Sibling, error) {
	key, err := b.order.Place(siblings, pos)
	if !errors.Is(err, internal_errors.ErrOrderSpaceExhausted) {
		return key, nil, err
	}

	reindexed := b.order.Reindex(siblings)
	reindexTotal.WithLabelValues(container).Inc()
	logger.Log.Debug("order space exhausted, reindexing", "container", container, "size", len(siblings))

	key, err = b.order.Place(reindexed, pos)
	if err != nil {
		return 0, nil, err
	}
	return key, reindexed, nil
}

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, internal_errors.ErrNotFound)
}

// hide turns any not found outcome into "kind id not found", so an unowned entity looks
// exactly like a missing one.
func hide(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, internal_errors.ErrNotFound) {
		return notFound(kind, id)
	}
	return err
}

func reindexedKeys(s []domain.Sibling) []domain.ReindexedKey {
	if len(s) == 0 {
		return nil
	}
	out := make([]domain.ReindexedKey, len(s))
	for i := range s {
		out[i] = domain.ReindexedKey{EntityId: s[i].Id, OrderKey: s[i].Order, Revision: s[i].Revision}
	}
	return out
}

func (b *Boards) listEvent(l *domain.List, op domain.Operation, reindexed []domain.Sibling) domain.BoardEvent {
	parent := l.BoardId
	return domain.BoardEvent{
		BoardId:    l.BoardId,
		EntityType: domain.EntityList,
		EntityId:   l.Id,
		Operation:  op,
		OrderKey:   l.Order,
		ParentId:   &parent,
		Revision:   l.Revision,
		Title:      l.Title,
		Reindexed:  reindexedKeys(reindexed),
		OccurredAt: b.now().UTC(),
	}
}

func (b *Boards) cardEvent(boardId domain.BoardId, c *domain.Card, op domain.Operation, reindexed []domain.Sibling) domain.BoardEvent {
	parent := c.ListId
	return domain.BoardEvent{
		BoardId:    boardId,
		EntityType: domain.EntityCard,
		EntityId:   c.Id,
		Operation:  op,
		OrderKey:   c.Order,
		ParentId:   &parent,
		Revision:   c.Revision,
		Title:      c.Title,
		Reindexed:  reindexedKeys(reindexed),
		OccurredAt: b.now().UTC(),
	}
}
