package main

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/config"
	"github.com/ekainfr/vtauto/internal/dispatch"
	"github.com/ekainfr/vtauto/internal/registry"
	"github.com/ekainfr/vtauto/internal/rpc"
	"github.com/ekainfr/vtauto/internal/socketdir"
)

func newDaemonCmd() *cobra.Command {
	var foreground bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Start the vtauto daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if foreground {
				return runDaemon()
			}
			return forkDaemon()
		},
	}
	cmd.Flags().BoolVar(&foreground, "foreground", false, "Run in the foreground instead of detaching")
	cmd.AddCommand(newDaemonInternalCmd())
	return cmd
}

// newDaemonInternalCmd is the hidden re-exec target forkDaemon launches;
// it's what actually runs runDaemon() once detached.
func newDaemonInternalCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "_daemon",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon()
		},
	}
}

// forkDaemon re-execs the binary with "daemon _daemon" detached from the
// controlling terminal, then returns once the control socket is live.
func forkDaemon() error {
	if socketdir.Exists() {
		return fmt.Errorf("daemon already running at %s", socketdir.Path())
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("find executable: %w", err)
	}

	cmd := exec.Command(exe, "daemon", "_daemon")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Env = os.Environ()

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return fmt.Errorf("open /dev/null: %w", err)
	}
	defer devNull.Close()
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	go cmd.Wait()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if socketdir.Exists() {
			fmt.Printf("daemon started (pid %d), socket %s\n", cmd.Process.Pid, socketdir.Path())
			return nil
		}
		time.Sleep(25 * time.Millisecond)
	}
	return fmt.Errorf("daemon did not come up within 3s")
}

// runDaemon runs the daemon in the foreground: bind the socket, serve
// requests, and shut down cleanly on SIGINT/SIGTERM.
func runDaemon() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	instanceLock, err := socketdir.AcquireInstanceLock()
	if err != nil {
		return err
	}
	defer instanceLock.Unlock()

	socketdir.RemoveStale()
	ln, err := net.Listen("unix", socketdir.Path())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketdir.Path(), err)
	}
	defer os.Remove(socketdir.Path())

	reg := registry.New()
	disp := dispatch.New(reg, cfg.KillGrace)
	srv := rpc.NewServer(ln, disp)

	go srv.Serve()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	disp.BeginShutdown()
	ln.Close()

	done := make(chan struct{})
	go func() {
		disp.KillAll(cfg.KillGrace)
		close(done)
	}()

	select {
	case <-done:
	case <-sigCh:
		os.Exit(1)
	case <-time.After(cfg.KillGrace + 5*time.Second):
	}
	return nil
}
