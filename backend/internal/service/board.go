package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/shared/domain"
)

func (b *Boards) CreateBoard(ctx context.Context, user *domain.User, title domain.BoardTitle) (*domain.BoardMetadata, error) {
	if user == nil {
		// nobody to own it; same answer as every other unauthorized mutation
		return nil, notFound("board", uuid.Nil)
	}
	title = strings.TrimSpace(title)
	if err := b.validator.Title(title); err != nil {
		return nil, err
	}

	board := domain.BoardMetadata{Id: uuid.New(), Owner: user.Id, Title: title, CreatedAt: b.now().UTC()}
	err := b.mutate(ctx, "create_board", func(tx Tx, emit func(domain.BoardEvent)) error {
		if err := tx.CreateBoard(ctx, board); err != nil {
			return err
		}
		emit(domain.BoardEvent{
			BoardId:    board.Id,
			EntityType: domain.EntityBoard,
			EntityId:   board.Id,
			Operation:  domain.OpCreate,
			Revision:   1,
			Title:      board.Title,
			OccurredAt: board.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// GetBoard returns a consistent snapshot clients use to (re)synchronize their view.
func (b *Boards) GetBoard(ctx context.Context, user *domain.User, id domain.BoardId) (*domain.Board, error) {
	var board *domain.Board
	err := b.store.Transactionally(ctx, func(tx Tx) error {
		if err := b.auth.Authorize(ctx, tx, user, id); err != nil {
			return hide(err, "board", id)
		}
		var err error
		board, err = tx.GetBoard(ctx, id)
		return hide(err, "board", id)
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (b *Boards) ListBoards(ctx context.Context, user *domain.User) ([]domain.BoardMetadata, error) {
	if user == nil {
		return nil, nil
	}
	var boards []domain.BoardMetadata
	err := b.store.Transactionally(ctx, func(tx Tx) error {
		var err error
		boards, err = tx.ListBoards(ctx, user.Id)
		return err
	})
	return boards, err
}

// DeleteBoard removes the board with all lists and cards. Every removed entity gets its own
// delete event; subscribers must not rely on their relative order.
func (b *Boards) DeleteBoard(ctx context.Context, user *domain.User, id domain.BoardId) error {
	return b.mutate(ctx, "delete_board", func(tx Tx, emit func(domain.BoardEvent)) error {
		if err := b.auth.Authorize(ctx, tx, user, id); err != nil {
			return hide(err, "board", id)
		}
		if err := tx.LockBoard(ctx, id); err != nil {
			return hide(err, "board", id)
		}
		board, err := tx.GetBoard(ctx, id)
		if err != nil {
			return hide(err, "board", id)
		}
		if err := tx.DeleteBoard(ctx, id); err != nil {
			return hide(err, "board", id)
		}

		for i := range board.Lists {
			l := &board.Lists[i]
			for j := range l.Cards {
				c := l.Cards[j]
				c.Revision++
				emit(b.cardEvent(id, &c, domain.OpDelete, nil))
			}
			deleted := *l
			deleted.Revision++
			emit(b.listEvent(&deleted, domain.OpDelete, nil))
		}
		emit(domain.BoardEvent{
			BoardId:    id,
			EntityType: domain.EntityBoard,
			EntityId:   id,
			Operation:  domain.OpDelete,
			OccurredAt: b.now().UTC(),
		})
		return nil
	})
}
