// Package main is the entry point for the shortcuts tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	keymapPath string
	guard      string
	logLevel   string
	noWatch    bool
	noLua      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "shortcuts",
		Short: "Chorded keyboard shortcut dispatcher",
		Long: `shortcuts maps chords of held keys ("ctrl+s", "ctrl+alt+d") to actions
through a stack of scopes.

Run without a command to open the interactive terminal demo. Keymaps are
TOML or JSON files; see "shortcuts check" to find bindings that can never fire.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, &flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	pf.StringVarP(&flags.keymapPath, "keymap", "k", "", "path to a TOML or JSON keymap")
	pf.StringVar(&flags.guard, "guard", "", `native shortcut guard: "literal" or "grouped"`)
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&flags.noLua, "no-lua", false, "disable inline Lua bindings")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive terminal demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, &flags)
		},
	}
	runCmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "do not reload the keymap when it changes")

	root.AddCommand(
		runCmd,
		newKeysCmd(&flags),
		newBindingsCmd(&flags),
		newCheckCmd(&flags),
	)

	return root
}

// overrides converts set flags into config overrides.
func (f *globalFlags) overrides() map[string]any {
	o := make(map[string]any)
	if f.keymapPath != "" {
		o["keymap"] = f.keymapPath
	}
	if f.guard != "" {
		o["guard"] = f.guard
	}
	if f.logLevel != "" {
		o["log.level"] = f.logLevel
	}
	if f.noWatch {
		o["watch"] = false
	}
	if f.noLua {
		o["scripting"] = false
	}
	return o
}
