package service

import (
	"context"
	"errors"

	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
)

type OwnerReader interface {
	BoardOwner(ctx context.Context, id domain.BoardId) (domain.UserId, error)
}

// Authorizer decides whether a caller may touch a board.
//
// A board that exists but belongs to somebody else is reported exactly like a missing one,
// so callers can't probe for board ids.
type Authorizer struct{}

// Authorize returns nil when user owns the board and errors.ErrNotFound otherwise.
// Storage errors other than not found are returned as is.
func (a *Authorizer) Authorize(ctx context.Context, r OwnerReader, user *domain.User, boardId domain.BoardId) error {
	if user == nil {
		return internal_errors.ErrNotFound
	}
	owner, err := r.BoardOwner(ctx, boardId)
	if errors.Is(err, internal_errors.ErrNotFound) {
		return internal_errors.ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != user.Id {
		return internal_errors.ErrNotFound
	}
	return nil
}
