package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orderdesk/request-dashboard/internal/mcp"
)

// mcpCmd serves the request tools over stdio
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve request tools to an MCP client over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		return mcp.NewServer(a.uc.Session, a.uc.Table, a.uc.Compose, version, logger.Named("mcp")).Run(ctx)
	},
}
