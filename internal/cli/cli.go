// Package cli implements the prettycolors command-line interface.
//
// # Commands
//
//   - generate: place a sampled RGB cube on a grid and write the image
//   - inspect: summarize an image with its dominant colors
//
// # Logging
//
// Diagnostics go to stderr through a charmbracelet logger; --verbose (-v)
// enables debug output such as placement progress. Image data is written
// to stdout or --output only after a run succeeds.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	pc "github.com/setanarut/prettycolors"
)

// Build information, set via ldflags:
//
//	go build -ldflags "-X github.com/setanarut/prettycolors/internal/cli.Version=v1.0.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "prettycolors",
		Short:         "Paint every color of a sampled RGB cube exactly once",
		Long:          `prettycolors places each color of a sampled RGB cube on its own grid cell, growing the image outward from seed cells so that every new color lands next to its most similar neighbor.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}
	root.SetVersionTemplate("{{.Name}} version " + Version + "\ncommit: " + Commit + "\nbuilt: " + Date + "\n")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return pc.Wrapf(pc.ErrCodeConfig, err, "%s", cmd.CommandPath())
	})

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.inspectCommand())
	return root
}
