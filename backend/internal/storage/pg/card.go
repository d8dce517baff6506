package pg

import (
	"context"
	"fmt"

	"github.com/itchan-dev/boardsync/shared/domain"
	"github.com/itchan-dev/boardsync/shared/storage/pg"
)

const cardColumns = `c.id, c.list_id, c.title, c.description, c.description_html, c.priority,
		c.due_date, c.links, c.order_key, c.revision, c.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*domain.Card, error) {
	var c domain.Card
	err := row.Scan(
		&c.Id, &c.ListId, &c.Title, &c.Description, &c.DescriptionHTML, &c.Priority,
		&c.DueDate, &c.Links, &c.Order, &c.Revision, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *tx) GetCard(ctx context.Context, id domain.CardId) (*domain.Card, error) {
	c, err := scanCard(t.q.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM cards AS c WHERE c.id = $1", id))
	if err != nil {
		return nil, pg.TranslateError(err)
	}
	return c, nil
}

func (t *tx) CardSiblings(ctx context.Context, listId domain.ListId) ([]domain.Sibling, error) {
	return t.siblings(ctx, "SELECT id, order_key, revision FROM cards WHERE list_id = $1 ORDER BY order_key, id", listId)
}

func (t *tx) InsertCard(ctx context.Context, card domain.Card) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO cards(id, list_id, title, description, description_html, priority, due_date, links, order_key, revision, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, COALESCE($8::text[], '{}'), $9, $10, $11)
	`,
		card.Id, card.ListId, card.Title, card.Description, card.DescriptionHTML, card.Priority,
		card.DueDate, card.Links, card.Order, card.Revision, card.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", pg.TranslateError(err))
	}
	return nil
}

func (t *tx) UpdateCardFields(ctx context.Context, id domain.CardId, f domain.CardFields) (domain.Revision, error) {
	var rev domain.Revision
	err := t.q.QueryRowContext(ctx, `
		UPDATE cards
		SET title = $2, description = $3, description_html = $4, priority = $5, due_date = $6,
			links = COALESCE($7::text[], '{}'), revision = revision + 1
		WHERE id = $1
		RETURNING revision
	`, id, f.Title, f.Description, f.DescriptionHTML, f.Priority, f.DueDate, f.Links).Scan(&rev)
	if err != nil {
		return 0, pg.TranslateError(err)
	}
	return rev, nil
}

// PlaceCard changes parent and key in one statement, so readers never see one without the other.
func (t *tx) PlaceCard(ctx context.Context, id domain.CardId, listId domain.ListId, key domain.OrderKey) (domain.Revision, error) {
	var rev domain.Revision
	err := t.q.QueryRowContext(ctx,
		"UPDATE cards SET list_id = $2, order_key = $3, revision = revision + 1 WHERE id = $1 RETURNING revision",
		id, listId, key,
	).Scan(&rev)
	if err != nil {
		return 0, pg.TranslateError(err)
	}
	return rev, nil
}

func (t *tx) SetCardOrders(ctx context.Context, keys []domain.Sibling) ([]domain.Sibling, error) {
	return t.setOrders(ctx, "cards", keys)
}

func (t *tx) DeleteCard(ctx context.Context, id domain.CardId) error {
	return mustAffect(t.q.ExecContext(ctx, "DELETE FROM cards WHERE id = $1", id))
}
