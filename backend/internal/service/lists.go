package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/backend/internal/order"
	"github.com/itchan-dev/boardsync/shared/domain"
)

func (b *Boards) CreateList(ctx context.Context, user *domain.User, data domain.ListCreationData) (*domain.List, error) {
	title := strings.TrimSpace(data.Title)
	if err := b.validator.Title(title); err != nil {
		return nil, err
	}

	var list domain.List
	err := b.mutate(ctx, "create_list", func(tx Tx, emit func(domain.BoardEvent)) error {
		if err := b.auth.Authorize(ctx, tx, user, data.BoardId); err != nil {
			return hide(err, "board", data.BoardId)
		}
		if err := tx.LockBoard(ctx, data.BoardId); err != nil {
			return hide(err, "board", data.BoardId)
		}
		siblings, err := tx.ListSiblings(ctx, data.BoardId)
		if err != nil {
			return err
		}
		key, reindexed, err := b.allocate("list", siblings, data.Position)
		if err != nil {
			return err
		}
		if reindexed, err = b.writeListOrders(ctx, tx, reindexed); err != nil {
			return err
		}

		list = domain.List{
			Id:        uuid.New(),
			BoardId:   data.BoardId,
			Title:     title,
			Order:     key,
			Revision:  1,
			CreatedAt: b.now().UTC(),
		}
		if err := tx.InsertList(ctx, list); err != nil {
			return err
		}
		emit(b.listEvent(&list, domain.OpCreate, reindexed))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (b *Boards) UpdateList(ctx context.Context, user *domain.User, id domain.ListId, title domain.ListTitle) (*domain.List, error) {
	title = strings.TrimSpace(title)
	if err := b.validator.Title(title); err != nil {
		return nil, err
	}

	var list *domain.List
	err := b.mutate(ctx, "update_list", func(tx Tx, emit func(domain.BoardEvent)) error {
		l, err := b.ownedList(ctx, tx, user, id)
		if err != nil {
			return err
		}
		if l.Revision, err = tx.RenameList(ctx, id, title); err != nil {
			return hide(err, "list", id)
		}
		l.Title = title
		list = l
		emit(b.listEvent(l, domain.OpUpdate, nil))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ReorderList moves a list within its board.
func (b *Boards) ReorderList(ctx context.Context, user *domain.User, id domain.ListId, pos domain.Position) (*domain.List, error) {
	var list *domain.List
	err := b.mutate(ctx, "reorder_list", func(tx Tx, emit func(domain.BoardEvent)) error {
		l, err := b.ownedList(ctx, tx, user, id)
		if err != nil {
			return err
		}
		if err := tx.LockBoard(ctx, l.BoardId); err != nil {
			return hide(err, "list", id)
		}
		siblings, err := tx.ListSiblings(ctx, l.BoardId)
		if err != nil {
			return err
		}
		key, reindexed, err := b.allocate("list", order.Without(siblings, id), pos)
		if err != nil {
			return err
		}
		if reindexed, err = b.writeListOrders(ctx, tx, reindexed); err != nil {
			return err
		}
		moved, err := tx.SetListOrders(ctx, []domain.Sibling{{Id: id, Order: key}})
		if err != nil {
			return hide(err, "list", id)
		}
		l.Order, l.Revision = key, moved[0].Revision
		list = l
		emit(b.listEvent(l, domain.OpMove, reindexed))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteList removes the list and its cards. A card created concurrently either fails to
// find the list or is removed together with it, since both lock the list row.
func (b *Boards) DeleteList(ctx context.Context, user *domain.User, id domain.ListId) error {
	return b.mutate(ctx, "delete_list", func(tx Tx, emit func(domain.BoardEvent)) error {
		l, err := b.ownedList(ctx, tx, user, id)
		if err != nil {
			return err
		}
		// lock order is board then list
		if err := tx.LockBoard(ctx, l.BoardId); err != nil {
			return hide(err, "list", id)
		}
		if err := tx.LockLists(ctx, id); err != nil {
			return hide(err, "list", id)
		}
		cards, err := tx.CardSiblings(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteList(ctx, id); err != nil {
			return hide(err, "list", id)
		}

		for _, c := range cards {
			emit(b.cardEvent(l.BoardId, &domain.Card{Id: c.Id, ListId: id, Order: c.Order, Revision: c.Revision + 1}, domain.OpDelete, nil))
		}
		l.Revision++
		emit(b.listEvent(l, domain.OpDelete, nil))
		return nil
	})
}

// ownedList loads a list the caller may modify.
func (b *Boards) ownedList(ctx context.Context, tx Tx, user *domain.User, id domain.ListId) (*domain.List, error) {
	l, err := tx.GetList(ctx, id)
	if err != nil {
		return nil, hide(err, "list", id)
	}
	if err := b.auth.Authorize(ctx, tx, user, l.BoardId); err != nil {
		return nil, hide(err, "list", id)
	}
	return l, nil
}

func (b *Boards) writeListOrders(ctx context.Context, tx Tx, keys []domain.Sibling) ([]domain.Sibling, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	return tx.SetListOrders(ctx, keys)
}
