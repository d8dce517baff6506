package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/itchan-dev/boardsync/shared/api"
	"github.com/itchan-dev/boardsync/shared/domain"
	"github.com/itchan-dev/boardsync/shared/logger"
	mw "github.com/itchan-dev/boardsync/shared/middleware"
	"github.com/itchan-dev/boardsync/shared/utils"
)

// BoardEvents streams a board as Server-Sent Events: one "snapshot" event with the full
// board, then one "change" event per committed mutation. The subscription is opened before
// the snapshot is read, so no mutation falls between the two; clients drop the duplicates
// by revision.
func (h *Handler) BoardEvents(w http.ResponseWriter, r *http.Request) {
	id, err := parseId(r, "board")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	sub, err := h.events.Subscribe(ctx, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer sub.Close()

	// also the access check: only the owner gets a snapshot
	board, err := h.board.GetBoard(ctx, mw.GetUserFromContext(r), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "snapshot", api.BoardResponse{Board: *board}); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := writeEvent(w, "change", e); err != nil {
				logger.Log.Debug("event stream closed", "board_id", id, "error", err)
				return
			}
			flusher.Flush()
			if e.EntityType == domain.EntityBoard && e.Operation == domain.OpDelete {
				return
			}
		case err, ok := <-sub.Errors():
			if !ok {
				return
			}
			logger.Log.Warn("skipped undecodable board event", "board_id", id, "error", err)
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
