// Package command interprets slash commands and runs their one-slot
// confirmation flow.
//
// Destructive or navigating commands never execute immediately: the
// interpreter parks the command as pending and asks for confirmation. The
// next message either confirms, cancels, or leaves the pending slot
// untouched and flows on to normal handling. Only one command can be
// pending at a time; a new slash command overwrites it.
package command

import (
	"strings"

	"github.com/atu-portal/assistant/internal/i18n"
)

// Command identifies a portal action.
type Command int

const (
	None Command = iota
	Clear
	Reload
	Dashboard
	Library
	Profile
)

func (c Command) String() string {
	switch c {
	case Clear:
		return "clear"
	case Reload:
		return "reload"
	case Dashboard:
		return "dashboard"
	case Library:
		return "library"
	case Profile:
		return "profile"
	default:
		return "none"
	}
}

// Action tells the caller what to do with an interpreter result.
type Action int

const (
	// ActionNone means the message was not consumed; handle it as a
	// regular chat message.
	ActionNone Action = iota

	// ActionReply means show Message and stop.
	ActionReply

	// ActionExecute means run Command, then show Message.
	ActionExecute
)

// Result is the outcome of interpreting one message.
type Result struct {
	Action  Action
	Command Command

	// Message is the user-facing reply for ActionReply and ActionExecute.
	Message string

	// Pending reports whether a confirmation is now awaited.
	Pending bool
}

// rule maps a slash command's match keywords to its Command. Matching is
// ordered and substring-based, so "/clear storage" still hits /clear.
type rule struct {
	keywords []string
	command  Command
	confirm  string
	done     string
}

var rules = []rule{
	{[]string{"clear", "очист"}, Clear, "command.confirm.clear", "command.done.clear"},
	{[]string{"reload", "перезагр"}, Reload, "command.confirm.reload", "command.done.reload"},
	{[]string{"dashboard", "дашборд"}, Dashboard, "command.confirm.dashboard", "command.done.dashboard"},
	{[]string{"library", "библиот"}, Library, "command.confirm.library", "command.done.library"},
	{[]string{"profile", "профил", "кабинет"}, Profile, "command.confirm.profile", "command.done.profile"},
}

var (
	confirmWords = []string{"да", "yes", "подтверждаю", "ок", "ok", "✓", "y"}
	cancelWords  = []string{"нет", "no", "отмена", "cancel", "✗", "n"}
)

// Interpreter holds the single pending-command slot. It is not safe for
// concurrent use; the chat orchestrator serializes messages.
type Interpreter struct {
	pending Command
}

// NewInterpreter returns an interpreter with no pending command.
func NewInterpreter() *Interpreter {
	return &Interpreter{pending: None}
}

// Pending returns the command awaiting confirmation, None if there is none.
func (in *Interpreter) Pending() Command {
	return in.pending
}

// Reset clears the pending slot without a user-facing reply.
func (in *Interpreter) Reset() {
	in.pending = None
}

// Interpret processes one message against the command state machine.
func (in *Interpreter) Interpret(message string) Result {
	text := strings.ToLower(strings.TrimSpace(message))

	if in.pending != None {
		if matchesAny(text, confirmWords) {
			cmd := in.pending
			in.pending = None
			return Result{
				Action:  ActionExecute,
				Command: cmd,
				Message: i18n.T(doneKey(cmd)),
			}
		}
		if matchesAny(text, cancelWords) {
			in.pending = None
			return Result{
				Action:  ActionReply,
				Message: i18n.T("command.cancelled"),
			}
		}
		// Neither confirm nor cancel: the pending slot survives and the
		// message is handled as a normal question.
	}

	if !strings.HasPrefix(text, "/") {
		return Result{Action: ActionNone, Pending: in.pending != None}
	}

	body := strings.TrimPrefix(text, "/")
	if strings.TrimSpace(body) == "" {
		return Result{Action: ActionReply, Message: i18n.T("command.help"), Pending: in.pending != None}
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(body, kw) {
				in.pending = r.command
				return Result{
					Action:  ActionReply,
					Message: i18n.T(r.confirm),
					Pending: true,
				}
			}
		}
	}

	return Result{Action: ActionReply, Message: i18n.T("command.help"), Pending: in.pending != None}
}

func doneKey(c Command) string {
	return "command.done." + c.String()
}

// matchesAny reports whether text is exactly one of the words. Confirmation
// of a destructive command is deliberately strict; any longer phrase leaves
// the pending command parked.
func matchesAny(text string, words []string) bool {
	for _, w := range words {
		if text == w {
			return true
		}
	}
	return false
}
