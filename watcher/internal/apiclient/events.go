package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/itchan-dev/boardsync/shared/api"
	"github.com/itchan-dev/boardsync/shared/domain"
)

// max size of one event line, snapshots of big boards are large
const maxEventSize = 16 << 20

// ErrStreamClosed means the backend ended the stream without the board being deleted.
var ErrStreamClosed = errors.New("event stream closed")

// StreamHandler receives what a board event stream carries.
// Change returns false to stop following.
type StreamHandler interface {
	Snapshot(board *domain.Board)
	Change(e domain.BoardEvent) bool
}

// Follow streams a board until ctx is done, the handler stops it, or the board is deleted.
// The first callback is always Snapshot.
func (c *APIClient) Follow(ctx context.Context, id domain.BoardId, h StreamHandler) error {
	resp, err := c.do(ctx, http.MethodGet, "/v1/boards/"+id.String()+"/events", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxEventSize)

	var name string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ":"):
			// keep-alive comment
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "":
			if name == "" {
				continue
			}
			stop, err := dispatch(name, data.String(), h)
			if err != nil || stop {
				return err
			}
			name = ""
			data.Reset()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("event stream broken: %w", err)
	}
	return ErrStreamClosed
}

func dispatch(name, data string, h StreamHandler) (stop bool, err error) {
	switch name {
	case "snapshot":
		var board api.BoardResponse
		if err := json.Unmarshal([]byte(data), &board); err != nil {
			return true, fmt.Errorf("cannot decode snapshot: %w", err)
		}
		h.Snapshot(&board.Board)
	case "change":
		var e domain.BoardEvent
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return true, fmt.Errorf("cannot decode change: %w", err)
		}
		if !h.Change(e) {
			return true, nil
		}
		if e.EntityType == domain.EntityBoard && e.Operation == domain.OpDelete {
			return true, nil
		}
	}
	// unknown event names are skipped so newer servers stay compatible
	return false, nil
}
