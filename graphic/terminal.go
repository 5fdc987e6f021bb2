package graphic

import (
	"os"
	"strings"
)

// normalizeTerminal works around terminal settings termbox cannot handle.
// Under tmux a TERMINFO pointing at the outer terminal breaks termbox, so it
// is unset for the life of the monitor. The returned func puts it back.
func normalizeTerminal() (func(), error) {
	prev, had := os.LookupEnv("TERMINFO")

	if had && strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		if err := os.Unsetenv("TERMINFO"); err != nil {
			return nil, err
		}
	}

	return func() {
		if had {
			os.Setenv("TERMINFO", prev)
		}
	}, nil
}
