package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/propdoc/pkg/watcher"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate documents as components change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			dir := a.root
			if len(args) == 1 {
				dir = args[0]
			}

			gen, err := a.buildGenerator()
			if err != nil {
				return err
			}
			defer gen.Close()

			w, err := watcher.New(gen, a.cfg.WatcherOptions(), a.logger)
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := w.Start(ctx, dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (Ctrl+C to stop)\n", dir)

			<-ctx.Done()
			return w.Stop()
		},
	}
}
