package main

import (
	"github.com/spf13/cobra"

	"github.com/ekainfr/vtauto/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vtauto",
		Short:         "Headless terminal-automation daemon",
		Long:          "vtauto spawns and drives PTY sessions headlessly: feed keys and text, read back the rendered screen, and query on-screen UI elements by role.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newDaemonCmd(),
		newSpawnCmd(),
		newKillCmd(),
		newListCmd(),
		newAttachCmd(),
		newResizeCmd(),
		newWriteCmd(),
		newSnapshotCmd(),
		newActionCmd(),
		newWaitCmd(),
		newFindCmd(),
		newHealthCmd(),
	)

	return root
}
