package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn   bool
	loginFails bool

	calls []string
	args  []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = !f.loginFails
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) List(ctx context.Context, query string) error {
	f.calls = append(f.calls, "list")
	f.args = append(f.args, query)
	return nil
}
func (f *fakeExec) Refresh(ctx context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}
func (f *fakeExec) Show(ctx context.Context, id string) error {
	f.calls = append(f.calls, "show")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) Add(ctx context.Context) error {
	f.calls = append(f.calls, "add")
	return nil
}
func (f *fakeExec) Edit(ctx context.Context, id string) error {
	f.calls = append(f.calls, "edit")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	f.args = append(f.args, id)
	return nil
}

func silenceREPL(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silenceREPL(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"list civic red",
		"l",
		"show 42",
		"add",
		"edit 42",
		"delete 43",
		"refresh",
		"whoami",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "list", "list", "show", "add", "edit", "delete", "refresh", "whoami", "logout"}, exec.calls)
	assert.Equal(t, []string{"civic red", "", "42", "42", "43"}, exec.args)
}

func TestRunREPL_AnonymousIsRedirectedToLogin(t *testing.T) {
	printed := silenceREPL(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")))

	assert.Equal(t, []string{"login", "list"}, exec.calls, "command runs after a successful login")
	assert.Contains(t, *printed, "Unauthorized! Please log in.")
}

func TestRunREPL_FailedRedirectSkipsCommand(t *testing.T) {
	silenceREPL(t)

	exec := &fakeExec{loginFails: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("add\ndelete 1\n")))

	assert.Equal(t, []string{"login", "login"}, exec.calls)
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	printed := silenceREPL(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("show\nedit 1 2\nquit\nshow 1\n")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *printed, "Usage: show <id>")
	assert.Contains(t, *printed, "Usage: edit <id>")
	assert.Contains(t, *printed, "Bye!")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	silenceREPL(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")))

	assert.Empty(t, exec.calls)
}
