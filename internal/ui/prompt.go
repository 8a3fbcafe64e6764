package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrEmptyPassword is returned when the user enters nothing at the prompt.
var ErrEmptyPassword = errors.New("password must not be empty")

// ReadPassword prompts on out and reads a password from in without echo.
// Piped input is read as a single line instead.
func ReadPassword(in *os.File, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	var (
		password string
		err      error
	)
	if IsTerminal(in) {
		var b []byte
		b, err = term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		password = string(b)
	} else {
		password, err = readLine(in)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if password == "" {
		return "", ErrEmptyPassword
	}
	return password, nil
}

// readLine reads up to and including '\n' one byte at a time, so input
// after the line stays unread for the next prompt.
func readLine(r io.Reader) (string, error) {
	var (
		line []byte
		b    = make([]byte, 1)
	)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				break
			}
			line = append(line, b[0])
		}
		if errors.Is(err, io.EOF) && len(line) > 0 {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(string(line), "\r"), nil
}

// Confirm shows a warning box listing changes and asks the user to answer
// yes. Anything other than "y" or "yes" declines.
func Confirm(in io.Reader, out io.Writer, title string, changes []string) bool {
	width := GetTerminalWidth()

	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   %s  %s", WarningMarker, title)), ""}
	for _, c := range changes {
		lines = append(lines, ResultValueStyle.Render("   • "+c))
	}
	lines = append(lines, "")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	fmt.Fprintln(out, box)
	fmt.Fprint(out, WarningTitleStyle.Render("Apply these changes? [y/N]: "))

	answer, err := readLine(in)
	if err != nil {
		fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(out, MutedStyle.Render("  Update cancelled."))
	return false
}
