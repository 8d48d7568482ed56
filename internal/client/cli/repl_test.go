package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Signup(ctx context.Context) error {
	f.calls = append(f.calls, "signup")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"",
		"help",
		"whoami",
		"logout",
		"register",
		"foobar",
		"exit",
		"login",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return " (status)" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "whoami", "logout", "signup"}, exec.calls)
	assert.Contains(t, *out, "Available commands: signup, login, exit")
	assert.Contains(t, *out, "Available commands: whoami, logout, signup, exit")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "localauth (status)> ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("quit-not\nlogin")))

	assert.Equal(t, []string{"login"}, exec.calls)
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	exec := &cancelingExec{fakeExec: &fakeExec{}, cancel: cancel}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("login\nwhoami\n")))

	assert.Equal(t, []string{"login"}, exec.calls)
}

type cancelingExec struct {
	*fakeExec
	cancel context.CancelFunc
}

func (c *cancelingExec) Login(ctx context.Context) error {
	c.cancel()
	return c.fakeExec.Login(ctx)
}
