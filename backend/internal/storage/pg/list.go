package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
	"github.com/itchan-dev/boardsync/shared/storage/pg"
	"github.com/lib/pq"
)

func (t *tx) GetList(ctx context.Context, id domain.ListId) (*domain.List, error) {
	var l domain.List
	err := t.q.QueryRowContext(ctx,
		"SELECT id, board_id, title, order_key, revision, created_at FROM lists WHERE id = $1", id,
	).Scan(&l.Id, &l.BoardId, &l.Title, &l.Order, &l.Revision, &l.CreatedAt)
	if err != nil {
		return nil, pg.TranslateError(err)
	}
	return &l, nil
}

// LockLists locks list rows in id order, so two transactions locking the same pair
// can't deadlock.
func (t *tx) LockLists(ctx context.Context, ids ...domain.ListId) error {
	unique := map[domain.ListId]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	rows, err := t.q.QueryContext(ctx,
		"SELECT id FROM lists WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE",
		pq.Array(uuidStrings(ids)),
	)
	if err != nil {
		return pg.TranslateError(err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return pg.TranslateError(err)
	}
	if locked != len(unique) {
		return pg.TranslateError(sql.ErrNoRows)
	}
	return nil
}

func (t *tx) ListSiblings(ctx context.Context, boardId domain.BoardId) ([]domain.Sibling, error) {
	return t.siblings(ctx, "SELECT id, order_key, revision FROM lists WHERE board_id = $1 ORDER BY order_key, id", boardId)
}

func (t *tx) InsertList(ctx context.Context, list domain.List) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO lists(id, board_id, title, order_key, revision, created_at)
		VALUES($1, $2, $3, $4, $5, $6)
	`, list.Id, list.BoardId, list.Title, list.Order, list.Revision, list.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", pg.TranslateError(err))
	}
	return nil
}

func (t *tx) RenameList(ctx context.Context, id domain.ListId, title domain.ListTitle) (domain.Revision, error) {
	var rev domain.Revision
	err := t.q.QueryRowContext(ctx,
		"UPDATE lists SET title = $2, revision = revision + 1 WHERE id = $1 RETURNING revision", id, title,
	).Scan(&rev)
	if err != nil {
		return 0, pg.TranslateError(err)
	}
	return rev, nil
}

func (t *tx) SetListOrders(ctx context.Context, keys []domain.Sibling) ([]domain.Sibling, error) {
	return t.setOrders(ctx, "lists", keys)
}

func (t *tx) DeleteList(ctx context.Context, id domain.ListId) error {
	return mustAffect(t.q.ExecContext(ctx, "DELETE FROM lists WHERE id = $1", id))
}

func (t *tx) siblings(ctx context.Context, query string, parent uuid.UUID) ([]domain.Sibling, error) {
	rows, err := t.q.QueryContext(ctx, query, parent)
	if err != nil {
		return nil, fmt.Errorf("failed to query siblings: %w", pg.TranslateError(err))
	}
	defer rows.Close()

	var out []domain.Sibling
	for rows.Next() {
		var s domain.Sibling
		if err := rows.Scan(&s.Id, &s.Order, &s.Revision); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// setOrders rewrites order keys of the given rows in one statement and bumps their revisions.
// The result follows the order of keys. A row deleted since the siblings were read
// fails the whole call with a write conflict so the caller re-reads and retries.
func (t *tx) setOrders(ctx context.Context, table string, keys []domain.Sibling) ([]domain.Sibling, error) {
	ids := make([]string, len(keys))
	orders := make([]float64, len(keys))
	for i, k := range keys {
		ids[i], orders[i] = k.Id.String(), k.Order
	}

	rows, err := t.q.QueryContext(ctx, fmt.Sprintf(`
		UPDATE %[1]s AS t
		SET order_key = v.order_key, revision = t.revision + 1
		FROM unnest($1::uuid[], $2::double precision[]) AS v(id, order_key)
		WHERE t.id = v.id
		RETURNING t.id, t.order_key, t.revision
	`, pq.QuoteIdentifier(table)), pq.Array(ids), pq.Array(orders))
	if err != nil {
		return nil, fmt.Errorf("failed to update order keys: %w", pg.TranslateError(err))
	}
	defer rows.Close()

	updated := make(map[uuid.UUID]domain.Sibling, len(keys))
	for rows.Next() {
		var s domain.Sibling
		if err := rows.Scan(&s.Id, &s.Order, &s.Revision); err != nil {
			return nil, err
		}
		updated[s.Id] = s
	}
	if err := rows.Err(); err != nil {
		return nil, pg.TranslateError(err)
	}

	out := make([]domain.Sibling, len(keys))
	for i, k := range keys {
		s, ok := updated[k.Id]
		if !ok {
			return nil, fmt.Errorf("%s row %s vanished: %w", table, k.Id, internal_errors.ErrWriteConflict)
		}
		out[i] = s
	}
	return out, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
