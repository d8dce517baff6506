// Package render prints a board view for terminals.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/itchan-dev/boardsync/shared/domain"
	"github.com/itchan-dev/boardsync/shared/reconcile"
)

func init() {
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

var (
	cyan   = color.New(color.FgCyan, color.Bold)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed, color.Bold)
	faint  = color.New(color.Faint)
)

// Board prints the lists of v in display order, each followed by its cards.
func Board(w io.Writer, title string, v *reconcile.View) {
	if v.Deleted() {
		red.Fprintf(w, "%s was deleted\n", title)
		return
	}

	cyan.Fprintf(w, "%s\n", title)
	lists := v.Lists()
	if len(lists) == 0 {
		faint.Fprintln(w, "  (no lists)")
	}
	for _, l := range lists {
		yellow.Fprintf(w, "  %s\n", l.Title)
		for _, c := range v.Cards(l.Id) {
			fmt.Fprintf(w, "    - %s\n", c.Title)
		}
	}
}

// Event prints a one-line summary of a change.
func Event(w io.Writer, e domain.BoardEvent) {
	c := green
	if e.Operation == domain.OpDelete {
		c = red
	}
	c.Fprintf(w, "%-6s", e.Operation)
	fmt.Fprintf(w, " %s %s", e.EntityType, e.EntityId)
	if e.Operation != domain.OpDelete {
		fmt.Fprintf(w, " @%g r%d", e.OrderKey, e.Revision)
	}
	if n := len(e.Reindexed); n > 0 {
		faint.Fprintf(w, " (reindexed %d siblings)", n)
	}
	fmt.Fprintln(w)
}

// Boards prints board metadata one per line.
func Boards(w io.Writer, boards []domain.BoardMetadata) {
	if len(boards) == 0 {
		faint.Fprintln(w, "no boards")
		return
	}
	for _, b := range boards {
		cyan.Fprintf(w, "%s", b.Id)
		fmt.Fprintf(w, "  %s  ", b.Title)
		faint.Fprintln(w, b.CreatedAt.Format("2006-01-02 15:04"))
	}
}
