package logging

// Mode selects the logging defaults.
type Mode uint8

const (
	// ModeCLI is used by one-shot commands.
	ModeCLI Mode = iota + 1

	// ModeInteractive is used while the terminal demo owns the screen.
	ModeInteractive
)

func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	default:
		return "cli"
	}
}
