// Package main provides the entry point for the reasoning engine's MCP
// server.
//
// The server is designed to be spawned as a child process by an MCP host
// and communicates via stdio using the Model Context Protocol. It should
// not be run manually by users; the cobra root command below runs the
// server directly and has no subcommands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"unified-thinking/internal/config"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "unified-thinking-server",
	Short: "Cognitive reasoning engine MCP server",
	Long: `unified-thinking-server exposes the cognitive reasoning engine's
memory, tagging, evidence, bias, confidence, pattern, and parallel-stream
tools over the Model Context Protocol, communicating via stdio.`,
	Version: "2.0.0",
	RunE:    runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file (optional; defaults and UT_ environment variables always apply)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	comps, err := initComponents(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize components: %w", err)
	}
	defer func() {
		if err := comps.Close(); err != nil {
			comps.logger.Warnw("error during shutdown", "error", err)
		}
	}()

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)
	comps.server.RegisterTools(mcpServer)

	comps.logger.Info("reasoning engine ready, serving over stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
