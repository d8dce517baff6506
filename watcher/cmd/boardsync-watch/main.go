package main

import (
	"os"

	"github.com/itchan-dev/boardsync/watcher/cmd/boardsync-watch/commands"
)

func main() {
	// errors are printed by the commands themselves
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
