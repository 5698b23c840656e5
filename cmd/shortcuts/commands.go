package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/config"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/input/keymap"
	"github.com/dshills/shortcuts/internal/logging"
	"github.com/dshills/shortcuts/internal/shortcut"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = cellStyle.Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// setup loads the config and installs the logger.
func setup(flags *globalFlags, mode logging.Mode) (*config.Config, *slog.Logger, func() error, error) {
	cfg, err := config.Load(config.Options{
		Path:      flags.configPath,
		Overrides: flags.overrides(),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closeLog, err := logging.Init(cfg.Log, logging.InitOptions{
		Version: version,
		Mode:    mode,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("config loaded", slog.Any("sources", cfg.Sources))
	return cfg, logger, closeLog, nil
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func newKeysCmd(_ *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the key table in combo order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := key.NewRegistry()
			rows := make([][]string, 0, reg.Len())
			for i, k := range reg.Keys() {
				rows = append(rows, []string{strconv.Itoa(i), k.Name, strconv.Itoa(k.Code), keyClass(k)})
			}
			renderTable(cmd.OutOrStdout(), []string{"Order", "Name", "Code", "Class"}, rows)
			return nil
		},
	}
}

func keyClass(k *key.Key) string {
	switch {
	case k.IsModifier():
		return "modifier"
	case k.IsFunctionKey():
		return "function"
	case k.IsNavigationKey():
		return "navigation"
	default:
		return ""
	}
}

func newBindingsCmd(flags *globalFlags) *cobra.Command {
	var asJSON, asKeymap bool

	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Apply the keymap and list the resulting scope stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, closeLog, err := setup(flags, logging.ModeCLI)
			if err != nil {
				return err
			}
			defer closeLog()

			sess, err := newSession(cfg, logger, nopUI{})
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			switch {
			case asKeymap:
				data, err := sess.file.JSON()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case asJSON:
				data, err := keymap.ExportStack(sess.manager.Stack())
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			renderTable(out, []string{"Scope", "Combo", "Action", "Description"}, bindingRows(sess.manager, sess.file))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the scope stack as JSON")
	cmd.Flags().BoolVar(&asKeymap, "export", false, "print the keymap converted to the JSON keymap format")
	return cmd
}

// bindingRows lists live bindings top scope first, annotated from the file.
func bindingRows(m *shortcut.Manager, f *keymap.File) [][]string {
	byScope := make(map[string]map[string]keymap.Binding)
	for _, s := range f.Scopes {
		if byScope[s.Name] == nil {
			byScope[s.Name] = make(map[string]keymap.Binding)
		}
		for _, b := range s.Bindings {
			for _, combo := range b.Combos() {
				byScope[s.Name][combo] = b
			}
		}
	}

	var rows [][]string
	for _, s := range m.Stack().Scopes() {
		for _, combo := range s.Bindings() {
			b := byScope[s.Name][combo]
			rows = append(rows, []string{s.Name, combo, b.Target(), b.Description})
		}
	}
	return rows
}

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [keymap]",
		Short: "Report keymap bindings that can never fire",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.keymapPath = args[0]
			}
			cfg, logger, closeLog, err := setup(flags, logging.ModeCLI)
			if err != nil {
				return err
			}
			defer closeLog()

			return runCheck(cmd.OutOrStdout(), cfg, logger)
		},
	}
}

func runCheck(w io.Writer, cfg *config.Config, logger *slog.Logger) error {
	f := keymap.Default()
	if cfg.Keymap != "" {
		var err error
		if f, err = keymap.LoadFile(cfg.Keymap); err != nil {
			return err
		}
	}

	problems := keymap.Check(f, key.NewRegistry(), builtinActions(nil, nopUI{}))
	for _, p := range problems {
		fmt.Fprintln(w, warnStyle.Render(p.String()))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s) found", len(problems))
	}

	// Applying compiles Lua bindings, which surfaces syntax errors.
	sess, err := newSession(cfg, logger, nopUI{})
	if err != nil {
		return err
	}
	sess.Close()

	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("ok: %d bindings in %d scopes", f.Len(), len(f.Scopes))))
	return nil
}
