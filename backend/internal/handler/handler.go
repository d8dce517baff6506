package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/backend/internal/broadcast"
	"github.com/itchan-dev/boardsync/backend/internal/service"
	"github.com/itchan-dev/boardsync/shared/domain"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
)

// how often an idle event stream sends a comment so proxies keep it open
const defaultKeepAlive = 25 * time.Second

type EventSource interface {
	Subscribe(ctx context.Context, boardId domain.BoardId) (*broadcast.Subscription, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	board     service.BoardService
	events    EventSource
	health    map[string]Pinger
	keepAlive time.Duration
}

// New builds the handler. health names every dependency the readiness probe checks.
func New(board service.BoardService, events EventSource, health map[string]Pinger) *Handler {
	return &Handler{board: board, events: events, health: health, keepAlive: defaultKeepAlive}
}

// parseId reads a uuid url parameter.
func parseId(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, &internal_errors.ErrorWithStatusCode{Message: "invalid " + param + " id", StatusCode: http.StatusBadRequest}
	}
	return id, nil
}
