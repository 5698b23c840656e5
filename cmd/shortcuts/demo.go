package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/host/terminal"
	"github.com/dshills/shortcuts/internal/input/keymap"
	"github.com/dshills/shortcuts/internal/input/resolver"
	"github.com/dshills/shortcuts/internal/logging"
)

// maxLogLines bounds the on-screen outcome log.
const maxLogLines = 200

// Interrupt payloads posted to the event loop.
type (
	quitEvent   struct{}
	reloadEvent struct{ path string }
)

// demo is the interactive terminal view.
type demo struct {
	term   *terminal.Terminal
	sess   *session
	logger *slog.Logger

	lines  []string
	status string
}

func runDemo(_ *cobra.Command, flags *globalFlags) error {
	cfg, logger, closeLog, err := setup(flags, logging.ModeInteractive)
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := terminal.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	d := &demo{
		term:   terminal.New(screen, terminal.WithLogger(logger)),
		logger: logger,
	}
	defer d.term.Close()

	sess, err := newSession(cfg, logger, d)
	if err != nil {
		return err
	}
	defer sess.Close()
	d.sess = sess

	sess.manager.Observe(d.record)
	if err := sess.manager.Start(d.term); err != nil {
		return err
	}

	if cfg.Watch && cfg.Keymap != "" {
		w, err := keymap.NewWatcher(cfg.Keymap, cfg.Debounce)
		if err != nil {
			logger.Warn("keymap watch disabled", slog.String("path", cfg.Keymap), slog.Any("error", err))
		} else {
			defer w.Close()
			go d.forwardChanges(w)
		}
	}

	for _, p := range sess.problems() {
		d.addLine("warning: " + p.String())
	}
	d.status = "press keys; ctrl+q quits, f1 lists bindings"
	d.draw()

	d.term.Run(d.handle)
	return nil
}

// forwardChanges moves watcher notifications onto the event loop, where the
// manager may be touched.
func (d *demo) forwardChanges(w *keymap.Watcher) {
	for {
		select {
		case path, ok := <-w.Changes():
			if !ok {
				return
			}
			if err := d.term.Interrupt(reloadEvent{path: path}); err != nil {
				d.logger.Warn("dropping keymap reload", slog.Any("error", err))
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			d.logger.Warn("keymap watcher", slog.Any("error", err))
		}
	}
}

// handle receives events the shortcut manager did not consume.
func (d *demo) handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventInterrupt:
		switch data := e.Data().(type) {
		case quitEvent:
			return false
		case reloadEvent:
			if err := d.sess.reload(); err != nil {
				d.Status("reload failed: " + err.Error())
			} else {
				d.Status("reloaded " + data.path)
			}
		}
	case *tcell.EventResize:
		d.term.Screen().Sync()
	}
	d.draw()
	return true
}

// record is the manager observer.
func (d *demo) record(out resolver.Outcome) {
	line := fmt.Sprintf("%-9s %s", out.Kind, out.Combo)
	switch out.Kind {
	case resolver.OutcomeFired:
		line += fmt.Sprintf("  [%s] handled=%t", out.Scope.Name, out.Handled)
	case resolver.OutcomeReset:
		line += "  released " + strings.Join(out.Released, ", ")
	case resolver.OutcomeFailed:
		line += fmt.Sprintf("  [%s] %v", out.Scope.Name, out.Err)
	}
	d.addLine(line)
	d.draw()
}

func (d *demo) addLine(line string) {
	d.lines = append(d.lines, line)
	if len(d.lines) > maxLogLines {
		d.lines = d.lines[len(d.lines)-maxLogLines:]
	}
}

// Quit implements ui.
func (d *demo) Quit() {
	if err := d.term.Interrupt(quitEvent{}); err != nil {
		d.logger.Error("posting quit", slog.Any("error", err))
	}
}

// Help implements ui.
func (d *demo) Help() {
	for _, row := range bindingRows(d.sess.manager, d.sess.file) {
		d.addLine(fmt.Sprintf("  %-8s %-14s %s", row[0], row[1], row[2]))
	}
}

// Stats implements ui.
func (d *demo) Stats() {
	s := d.sess.manager.Stats().Snapshot()
	d.Status(fmt.Sprintf("presses %d  fired %d  unmatched %d  guarded %d  resets %d  failed %d  unknown %d  peak %s",
		s.Presses, s.Fired, s.Unmatched, s.Guarded, s.Resets, s.Failures, s.UnknownKeys, s.PeakAction))
}

// Status implements ui.
func (d *demo) Status(msg string) {
	d.status = msg
	d.logger.Info("status", slog.String("message", msg))
}

func (d *demo) draw() {
	screen := d.term.Screen()
	screen.Clear()
	width, height := screen.Size()

	title := tcell.StyleDefault.Reverse(true)
	plain := tcell.StyleDefault
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	drawText(screen, 0, 0, width, title, " shortcuts "+version)

	scopes := make([]string, 0, d.sess.manager.Stack().Depth())
	for _, s := range d.sess.manager.Stack().Scopes() {
		scopes = append(scopes, s.Name)
	}
	drawText(screen, 0, 1, width, plain, "scopes: "+strings.Join(scopes, " > "))
	drawText(screen, 0, 2, width, plain, "held:   "+strings.Join(d.sess.manager.Pressed(), "+"))
	drawText(screen, 0, 3, width, dim, d.status)

	top := 5
	rows := height - top
	if rows <= 0 {
		screen.Show()
		return
	}
	start := 0
	if len(d.lines) > rows {
		start = len(d.lines) - rows
	}
	for i, line := range d.lines[start:] {
		drawText(screen, 0, top+i, width, plain, line)
	}
	screen.Show()
}

func drawText(screen tcell.Screen, x, y, width int, style tcell.Style, text string) {
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
