// Command vtauto is a headless terminal-automation daemon and its
// controlling CLI: spawn PTY sessions, drive them by key or text input,
// and query their screen state and UI elements over a local control
// socket.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
