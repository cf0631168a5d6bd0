package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/exalaa/candidate-client/internal/client/controller"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	view() controller.View
	takeNotice() string
	Login(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Applications(ctx context.Context) error
	Survey(ctx context.Context) error
	Answer(ctx context.Context, text string) error
	Back(ctx context.Context) error
	Skip(ctx context.Context) error
	Reload(ctx context.Context) error
	OpenEditor(ctx context.Context, applicationID string) error
	Show(ctx context.Context) error
	Logout(ctx context.Context) error
}

var helpByView = map[controller.View]string{
	controller.ViewUnauthenticated: "Команды: login, exit",
	controller.ViewDashboard: "Команды: dash, apps, survey, answer <текст>, back, skip, reload, " +
		"editor <id заявки>, logout, exit",
	controller.ViewEditor: "Команды: show, back, logout, exit",
}

// commandViews lists the views each command is offered in.
var commandViews = map[string][]controller.View{
	"login":  {controller.ViewUnauthenticated},
	"dash":   {controller.ViewDashboard},
	"apps":   {controller.ViewDashboard},
	"survey": {controller.ViewDashboard},
	"answer": {controller.ViewDashboard},
	"skip":   {controller.ViewDashboard},
	"reload": {controller.ViewDashboard},
	"editor": {controller.ViewDashboard},
	"back":   {controller.ViewDashboard, controller.ViewEditor},
	"show":   {controller.ViewEditor},
	"logout": {controller.ViewDashboard, controller.ViewEditor},
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Everything it prints goes to out. The
// prompt shows the current view and the status from statusFn. Commands
// that do not belong to the current view are rejected before dispatch. Errors returned by handlers are reported
// as short user messages; the loop itself never stops on them.
// The loop exits on EOF, when ctx is done, or when the user types "exit"
// or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	say := func(args ...any) { fmt.Fprintln(out, args...) }

	for {
		if ctx.Err() != nil {
			return
		}
		if n := a.takeNotice(); n != "" {
			say(n)
		}
		fmt.Fprintf(out, "exalaa %s %s> ", a.view(), statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if cmd == "exit" || cmd == "quit" {
			say("До встречи!")
			return
		}
		if cmd == "help" {
			say(helpByView[a.view()])
			continue
		}

		views, known := commandViews[cmd]
		if !known {
			say("Неизвестная команда:", cmd)
			continue
		}
		if !offeredIn(views, a.view()) {
			say(controller.UserMessage(controller.ErrWrongView))
			continue
		}

		if err := dispatch(ctx, a, cmd, rest, out); err != nil {
			say(controller.UserMessage(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd, rest string, out io.Writer) error {
	switch cmd {
	case "login":
		return a.Login(ctx)
	case "dash":
		return a.Dashboard(ctx)
	case "apps":
		return a.Applications(ctx)
	case "survey":
		return a.Survey(ctx)
	case "answer":
		return a.Answer(ctx, rest)
	case "back":
		return a.Back(ctx)
	case "skip":
		return a.Skip(ctx)
	case "reload":
		return a.Reload(ctx)
	case "editor":
		if rest == "" {
			fmt.Fprintln(out, "Использование: editor <id заявки>")
			return nil
		}
		return a.OpenEditor(ctx, rest)
	case "show":
		return a.Show(ctx)
	case "logout":
		return a.Logout(ctx)
	}
	return nil
}

func offeredIn(views []controller.View, v controller.View) bool {
	for _, candidate := range views {
		if candidate == v {
			return true
		}
	}
	return false
}

func (a *App) getStatus() string {
	s := ""
	if email := a.ctrl.Snapshot().Email; email != "" {
		s = email + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}
