package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/propdoc/pkg/mcp"
	"github.com/gnana997/propdoc/pkg/mcplog"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve generate_doc and preview_props over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			gen, err := a.buildGenerator()
			if err != nil {
				return err
			}
			defer gen.Close()

			callLog, err := mcplog.NewLogger(a.fs, a.cfg.MCP.CallLog)
			if err != nil {
				return err
			}
			if callLog != nil {
				defer callLog.Close()
			}

			srv := mcpserver.NewServer(gen, mcpserver.Options{Root: a.root, CallLog: callLog}, a.logger)
			return srv.ServeStdio()
		},
	}
}
