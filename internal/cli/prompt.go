package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// defaultReadPassword reads without echo when stdin is a terminal and falls
// back to a plain line read otherwise (pipes, tests).
func defaultReadPassword(raw io.Reader, lines *bufio.Reader, errOut io.Writer) func(string) (string, error) {
	if errOut == nil {
		errOut = os.Stderr
	}
	return func(prompt string) (string, error) {
		fmt.Fprint(errOut, prompt)
		if f, ok := raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(errOut)
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return string(b), nil
		}
		line, err := lines.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
