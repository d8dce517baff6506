package pg

import (
	"context"
	"fmt"

	"github.com/itchan-dev/boardsync/shared/domain"
	"github.com/itchan-dev/boardsync/shared/storage/pg"
)

func (t *tx) BoardOwner(ctx context.Context, id domain.BoardId) (domain.UserId, error) {
	var owner domain.UserId
	err := t.q.QueryRowContext(ctx, "SELECT owner_id FROM boards WHERE id = $1", id).Scan(&owner)
	if err != nil {
		return 0, pg.TranslateError(err)
	}
	return owner, nil
}

func (t *tx) CreateBoard(ctx context.Context, board domain.BoardMetadata) error {
	_, err := t.q.ExecContext(ctx,
		"INSERT INTO boards(id, owner_id, title, created_at) VALUES($1, $2, $3, $4)",
		board.Id, board.Owner, board.Title, board.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert board: %w", pg.TranslateError(err))
	}
	return nil
}

// LockBoard takes the board row lock that guards the order of its lists.
func (t *tx) LockBoard(ctx context.Context, id domain.BoardId) error {
	var locked domain.BoardId
	err := t.q.QueryRowContext(ctx, "SELECT id FROM boards WHERE id = $1 FOR UPDATE", id).Scan(&locked)
	return pg.TranslateError(err)
}

// GetBoard reads the board with all lists and cards, each level sorted by (order_key, id).
func (t *tx) GetBoard(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	var board domain.Board
	err := t.q.QueryRowContext(ctx,
		"SELECT id, owner_id, title, created_at FROM boards WHERE id = $1", id,
	).Scan(&board.Id, &board.Owner, &board.Title, &board.CreatedAt)
	if err != nil {
		return nil, pg.TranslateError(err)
	}

	rows, err := t.q.QueryContext(ctx, `
		SELECT id, board_id, title, order_key, revision, created_at
		FROM lists
		WHERE board_id = $1
		ORDER BY order_key, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	index := map[domain.ListId]int{}
	for rows.Next() {
		var l domain.List
		if err := rows.Scan(&l.Id, &l.BoardId, &l.Title, &l.Order, &l.Revision, &l.CreatedAt); err != nil {
			return nil, err
		}
		index[l.Id] = len(board.Lists)
		board.Lists = append(board.Lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cardRows, err := t.q.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards AS c
		JOIN lists AS l ON l.id = c.list_id
		WHERE l.board_id = $1
		ORDER BY c.list_id, c.order_key, c.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer cardRows.Close()

	for cardRows.Next() {
		c, err := scanCard(cardRows)
		if err != nil {
			return nil, err
		}
		i, ok := index[c.ListId]
		if !ok {
			continue
		}
		board.Lists[i].Cards = append(board.Lists[i].Cards, *c)
	}
	if err := cardRows.Err(); err != nil {
		return nil, err
	}
	return &board, nil
}

func (t *tx) ListBoards(ctx context.Context, owner domain.UserId) ([]domain.BoardMetadata, error) {
	rows, err := t.q.QueryContext(ctx,
		"SELECT id, owner_id, title, created_at FROM boards WHERE owner_id = $1 ORDER BY created_at, id", owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	var boards []domain.BoardMetadata
	for rows.Next() {
		var b domain.BoardMetadata
		if err := rows.Scan(&b.Id, &b.Owner, &b.Title, &b.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// DeleteBoard removes the board. Lists and cards go with it through ON DELETE CASCADE.
func (t *tx) DeleteBoard(ctx context.Context, id domain.BoardId) error {
	return mustAffect(t.q.ExecContext(ctx, "DELETE FROM boards WHERE id = $1", id))
}
