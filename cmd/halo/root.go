package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/internal/prefs"
)

// errInvalid reports that at least one shader failed validation. The
// diagnostics were already printed.
var errInvalid = errors.New("invalid shader")

var version = "0.1.0-dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "halo",
		Short:         "Live WGSL fragment shader playground",
		Long:          `halo validates WGSL fragment shaders against a fixed uniform prologue and hot-swaps them into a running renderer.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return fmt.Errorf("failed to get verbose flag: %w", err)
			}
			if verbose {
				halo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			mode, err := cmd.Flags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			return setColorMode(mode, isTerminal(os.Stdout))
		},
	}

	root.PersistentFlags().Bool("verbose", false, "log debug output to stderr")
	root.PersistentFlags().String("prefs", prefs.DefaultPath, "preferences file")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newPrologueCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// setColorMode enables or disables colored output globally.
func setColorMode(mode string, tty bool) error {
	switch mode {
	case "auto":
		color.NoColor = !tty
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("unknown color mode %q (want auto, on or off)", mode)
	}
	return nil
}

func openPrefs(cmd *cobra.Command) (*prefs.Store, error) {
	path, err := cmd.Flags().GetString("prefs")
	if err != nil {
		return nil, fmt.Errorf("failed to get prefs flag: %w", err)
	}
	return prefs.NewStore(path)
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
