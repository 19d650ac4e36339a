package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ekainfr/vtauto/internal/rpc"
	"github.com/ekainfr/vtauto/internal/socketdir"
)

func newAttachCmd() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach the local terminal to a session's live output",
		Long:  "Relays local stdin to the session and its output to stdout until the session ends or stdin reaches end of file. When stdin is a terminal it is put in raw mode, so Ctrl-D is sent to the session as a keystroke and does not detach.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach(session)
		},
	}
	sessionFlag(cmd, &session)
	return cmd
}

func runAttach(session string) error {
	cols, rows := 80, 24
	if isatty.IsTerminal(os.Stdout.Fd()) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cols, rows = w, h
		}
	}

	client := rpc.Dial(socketdir.Path())
	conn, err := client.Attach(session, cols, rows)
	if err != nil {
		return err
	}
	defer conn.Close()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err == nil {
			defer term.Restore(int(os.Stdin.Fd()), oldState)
		}
		fmt.Fprint(os.Stderr, "\x1b[90m[attached; detaches when the session ends]\x1b[0m\r\n")
	}

	stopResize := watchResize(conn)
	defer stopResize()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			frameType, payload, err := rpc.ReadFrame(conn)
			if err != nil {
				return
			}
			if frameType == rpc.FrameTypeData {
				os.Stdout.Write(payload)
			}
		}
	}()

	go func() {
		io.Copy(dataFrameWriter{conn}, os.Stdin)
		conn.Close() // stdin at EOF: unblock the frame reader so attach returns
	}()

	<-done
	return nil
}

// dataFrameWriter wraps stdin bytes into data frames before writing to
// the attach connection, so the daemon can tell them apart from resize
// control frames on the same connection.
type dataFrameWriter struct {
	w io.Writer
}

func (d dataFrameWriter) Write(p []byte) (int, error) {
	if err := rpc.WriteFrame(d.w, rpc.FrameTypeData, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// watchResize forwards local SIGWINCH as resize control frames; the
// returned func stops the watch.
func watchResize(conn io.Writer) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		for range sigCh {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				payload, _ := json.Marshal(rpc.ResizeControl{Type: "resize", Cols: w, Rows: h})
				rpc.WriteFrame(conn, rpc.FrameTypeControl, payload)
			}
		}
	}()
	return func() { signal.Stop(sigCh) }
}
