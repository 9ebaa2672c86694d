// Package cli implements the spriteflow command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spriteflow/pkg/buildinfo"
	"github.com/matzehuels/spriteflow/pkg/engine"
	"github.com/matzehuels/spriteflow/pkg/engine/engines"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "spriteflow"

	// defaultOutDir is where build writes artifacts when --out is empty.
	defaultOutDir = "."

	// defaultAddr is the listen address for serve.
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
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
		Short:        "Spriteflow packs images into spritesheets and stylesheets",
		Long:         `Spriteflow groups source images into flows and packs each flow into one spritesheet image plus a stylesheet (css, scss, sass, less, stylus or json) describing every sprite.`,
		Version:      buildinfo.Current().Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.enginesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Registry Factory
// =============================================================================

// newRegistry builds the engine registry shared by build, engines and serve.
func (c *CLI) newRegistry() *engine.Registry {
	return engines.Registry(engines.DefaultDeps(c.Logger))
}
