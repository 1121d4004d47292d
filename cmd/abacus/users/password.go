package users

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// passwordFrom prompts without echo when in is a terminal, otherwise the
// first line of in is the password.
func passwordFrom(in *os.File, prompt io.Writer) (string, error) {
	if isTerminal(int(in.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		buf, err := readPassword(int(in.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return checkPassword(string(buf))
	}
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if sc.Err() != nil {
			return "", sc.Err()
		}
		return "", errors.New("missing password from stdin")
	}
	return checkPassword(sc.Text())
}

func checkPassword(plain string) (string, error) {
	plain = strings.TrimSpace(plain)
	if len(plain) == 0 {
		return "", errors.New("missing password from stdin")
	}
	return plain, nil
}
