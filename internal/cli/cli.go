// Package cli implements the layerdemo command-line interface.
//
// layerdemo builds layer stacks from TOML recipes (see package recipe) and
// either renders them to an image or prints the resulting stack.
//
// # Commands
//
//   - render: build a recipe and write the flattened image
//   - inspect: build a recipe and list its layers
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The same
// charmbracelet/log logger is installed as the layers library's slog
// handler, so store operations show up in verbose output.
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/layers"
)

const appName = "layerdemo"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "layerdemo renders layer stacks described by TOML recipes",
		Long:         `layerdemo builds a stack of named raster layers from a TOML recipe, composites them bottom to top with their blend modes, and writes or inspects the result.`,
		Version:      layers.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			layers.SetLogger(slog.New(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())

	return root
}
