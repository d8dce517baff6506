// Package follow keeps a terminal view of one board in sync with its event stream.
package follow

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
	"github.com/itchan-dev/boardsync/shared/logger"
	"github.com/itchan-dev/boardsync/shared/reconcile"
	"github.com/itchan-dev/boardsync/watcher/internal/apiclient"
	"github.com/itchan-dev/boardsync/watcher/internal/render"
)

const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

type Source interface {
	Follow(ctx context.Context, id domain.BoardId, h apiclient.StreamHandler) error
}

// Follower applies stream events to a reconciled view and redraws it when it changes.
type Follower struct {
	view    *reconcile.View
	out     io.Writer
	title   string
	verbose bool
	// set by each snapshot, so a stream that worked resets the backoff
	synced bool
}

func New(boardId domain.BoardId, out io.Writer, verbose bool) *Follower {
	return &Follower{view: reconcile.NewView(boardId), out: out, title: boardId.String(), verbose: verbose}
}

func (f *Follower) View() *reconcile.View {
	return f.view
}

func (f *Follower) Snapshot(board *domain.Board) {
	f.title = board.Title
	f.synced = true
	f.view.Load(board)
	render.Board(f.out, f.title, f.view)
}

func (f *Follower) Change(e domain.BoardEvent) bool {
	if f.verbose {
		render.Event(f.out, e)
	}
	if f.view.Apply(e) {
		render.Board(f.out, f.title, f.view)
	}
	return !f.view.Deleted()
}

// Run follows the board until ctx is done or the board is gone. A broken stream is reopened
// with backoff; every reconnect starts from a fresh snapshot, so changes missed while
// disconnected are picked up.
func (f *Follower) Run(ctx context.Context, src Source, id domain.BoardId) error {
	backoff := minBackoff
	for {
		err := src.Follow(ctx, id, f)
		switch {
		case f.view.Deleted():
			return nil
		case ctx.Err() != nil:
			return nil
		case isStatus(err, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound):
			return err
		case err == nil:
			// handler stopped the stream
			return nil
		}

		if f.synced {
			backoff = minBackoff
			f.synced = false
		}
		logger.Log.Warn("event stream interrupted, reconnecting", "board_id", id, "error", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func isStatus(err error, codes ...int) bool {
	var withCode *internal_errors.ErrorWithStatusCode
	if !errors.As(err, &withCode) {
		return false
	}
	for _, c := range codes {
		if withCode.StatusCode == c {
			return true
		}
	}
	return false
}
