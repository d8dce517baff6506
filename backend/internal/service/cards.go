package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/backend/internal/order"
	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
)

func (b *Boards) CreateCard(ctx context.Context, user *domain.User, data domain.CardCreationData) (*domain.Card, error) {
	fields, err := b.cleanFields(data.Fields)
	if err != nil {
		return nil, err
	}

	var card domain.Card
	err = b.mutate(ctx, "create_card", func(tx Tx, emit func(domain.BoardEvent)) error {
		l, err := b.ownedList(ctx, tx, user, data.ListId)
		if err != nil {
			return err
		}
		// the list row lock makes a concurrent DeleteList either wait for us or win outright
		if err := tx.LockLists(ctx, l.Id); err != nil {
			return hide(err, "list", l.Id)
		}
		siblings, err := tx.CardSiblings(ctx, l.Id)
		if err != nil {
			return err
		}
		key, reindexed, err := b.allocate("card", siblings, data.Position)
		if err != nil {
			return err
		}
		if reindexed, err = b.writeCardOrders(ctx, tx, reindexed); err != nil {
			return err
		}

		card = domain.Card{
			Id:         uuid.New(),
			ListId:     l.Id,
			CardFields: fields,
			Order:      key,
			Revision:   1,
			CreatedAt:  b.now().UTC(),
		}
		if err := tx.InsertCard(ctx, card); err != nil {
			return hide(err, "list", l.Id)
		}
		emit(b.cardEvent(l.BoardId, &card, domain.OpCreate, reindexed))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard edits the payload of a card. Its position is left alone.
func (b *Boards) UpdateCard(ctx context.Context, user *domain.User, id domain.CardId, data domain.CardUpdateData) (*domain.Card, error) {
	var card *domain.Card
	err := b.mutate(ctx, "update_card", func(tx Tx, emit func(domain.BoardEvent)) error {
		c, l, err := b.ownedCard(ctx, tx, user, id)
		if err != nil {
			return err
		}

		fields := c.CardFields
		if data.Title != nil {
			fields.Title = *data.Title
		}
		if data.Description != nil {
			fields.Description = *data.Description
		}
		if data.Priority != nil {
			fields.Priority = *data.Priority
		}
		if data.DueDate != nil {
			fields.DueDate = data.DueDate
		}
		if data.ClearDue {
			fields.DueDate = nil
		}
		if data.Links != nil {
			fields.Links = *data.Links
		}
		if fields, err = b.cleanFields(fields); err != nil {
			return err
		}

		if c.Revision, err = tx.UpdateCardFields(ctx, id, fields); err != nil {
			return hide(err, "card", id)
		}
		c.CardFields = fields
		card = c
		emit(b.cardEvent(l.BoardId, c, domain.OpUpdate, nil))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// MoveCard places a card at pos inside targetList, which may be its current list. Parent and
// key change in a single write so no reader sees one without the other.
func (b *Boards) MoveCard(ctx context.Context, user *domain.User, id domain.CardId, targetList domain.ListId, pos domain.Position) (*domain.Card, error) {
	var card *domain.Card
	err := b.mutate(ctx, "move_card", func(tx Tx, emit func(domain.BoardEvent)) error {
		c, src, err := b.ownedCard(ctx, tx, user, id)
		if err != nil {
			return err
		}

		dst := src
		if targetList != src.Id {
			if dst, err = tx.GetList(ctx, targetList); err != nil {
				return hide(err, "list", targetList)
			}
			if dst.BoardId != src.BoardId {
				// only an owner of the other board learns that it exists
				if err := b.auth.Authorize(ctx, tx, user, dst.BoardId); err != nil {
					return hide(err, "list", targetList)
				}
				return internal_errors.ErrCrossBoardMove
			}
		}

		if err := tx.LockLists(ctx, src.Id, dst.Id); err != nil {
			return hide(err, "list", targetList)
		}
		// the card may have moved between our first read and the lock
		if c, err = tx.GetCard(ctx, id); err != nil {
			return hide(err, "card", id)
		}
		if c.ListId != src.Id {
			return internal_errors.ErrWriteConflict
		}

		siblings, err := tx.CardSiblings(ctx, dst.Id)
		if err != nil {
			return err
		}
		key, reindexed, err := b.allocate("card", order.Without(siblings, id), pos)
		if err != nil {
			return err
		}
		if reindexed, err = b.writeCardOrders(ctx, tx, reindexed); err != nil {
			return err
		}
		if c.Revision, err = tx.PlaceCard(ctx, id, dst.Id, key); err != nil {
			return hide(err, "card", id)
		}
		c.ListId, c.Order = dst.Id, key
		card = c
		emit(b.cardEvent(dst.BoardId, c, domain.OpMove, reindexed))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (b *Boards) DeleteCard(ctx context.Context, user *domain.User, id domain.CardId) error {
	return b.mutate(ctx, "delete_card", func(tx Tx, emit func(domain.BoardEvent)) error {
		c, l, err := b.ownedCard(ctx, tx, user, id)
		if err != nil {
			return err
		}
		// serializes with inserts and reindexes of the same list
		if err := tx.LockLists(ctx, c.ListId); err != nil {
			return hide(err, "card", id)
		}
		if c, err = tx.GetCard(ctx, id); err != nil {
			return hide(err, "card", id)
		}
		if c.ListId != l.Id {
			return internal_errors.ErrWriteConflict
		}
		if err := tx.DeleteCard(ctx, id); err != nil {
			return hide(err, "card", id)
		}
		c.Revision++
		emit(b.cardEvent(l.BoardId, c, domain.OpDelete, nil))
		return nil
	})
}

// ownedCard loads a card the caller may modify together with its current list.
func (b *Boards) ownedCard(ctx context.Context, tx Tx, user *domain.User, id domain.CardId) (*domain.Card, *domain.List, error) {
	c, err := tx.GetCard(ctx, id)
	if err != nil {
		return nil, nil, hide(err, "card", id)
	}
	l, err := tx.GetList(ctx, c.ListId)
	if err != nil {
		return nil, nil, hide(err, "card", id)
	}
	if err := b.auth.Authorize(ctx, tx, user, l.BoardId); err != nil {
		return nil, nil, hide(err, "card", id)
	}
	return c, l, nil
}

// cleanFields validates the payload and renders the description.
func (b *Boards) cleanFields(f domain.CardFields) (domain.CardFields, error) {
	f.Title = strings.TrimSpace(f.Title)
	if err := b.validator.Title(f.Title); err != nil {
		return f, err
	}
	if err := b.validator.Description(f.Description); err != nil {
		return f, err
	}
	if err := b.validator.Priority(f.Priority); err != nil {
		return f, err
	}
	if err := b.validator.Links(f.Links); err != nil {
		return f, err
	}
	f.DescriptionHTML = b.renderer.Render(f.Description)
	return f, nil
}

func (b *Boards) writeCardOrders(ctx context.Context, tx Tx, keys []domain.Sibling) ([]domain.Sibling, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	return tx.SetCardOrders(ctx, keys)
}
