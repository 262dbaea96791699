// Package frontend holds the three terminal programs of the network: the
// miner, the daily task client and the wallet client. Each is a loop over a
// View with its state kept on the session struct
package frontend

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// View is the screen a session is showing
type View int

const (
	ViewLogin View = iota
	ViewSession
	ViewExit
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewSession:
		return "session"
	case ViewExit:
		return "exit"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

const ruleWidth = 50

// Console reads answers line by line and writes prompts and screens
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
	sleep   func(time.Duration)
}

// NewConsole wraps the terminal streams; sleep paces the screens and may
// be nil to never pause
func NewConsole(in io.Reader, out io.Writer, sleep func(time.Duration)) *Console {
	if sleep == nil {
		sleep = func(time.Duration) {}
	}
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
		sleep:   sleep,
	}
}

// Prompt prints label and returns the trimmed answer; false means input
// has ended
func (c *Console) Prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.scanner.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Rule prints a horizontal line of ch
func (c *Console) Rule(ch string) {
	fmt.Fprintln(c.out, strings.Repeat(ch, ruleWidth))
}

func (c *Console) Pause(d time.Duration) {
	c.sleep(d)
}

// Menu prints numbered options and returns the raw choice
func (c *Console) Menu(options ...string) (string, bool) {
	for i, o := range options {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, o)
	}
	return c.Prompt("Enter your choice: ")
}
