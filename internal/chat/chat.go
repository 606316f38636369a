// Package chat orchestrates the assistant conversation: slash commands,
// greetings, retrieval-grounded answers and the generation fallback.
//
// Message handling is strictly ordered. Commands and their confirmation
// flow run first and may consume the message. Greetings get canned replies
// without touching the models. Questions go through retrieval; only when
// extraction cannot produce a direct answer does the generation engine run,
// and its output passes through cleanup and a final sanity gate before the
// user sees it.
package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/atu-portal/assistant/internal/accounts"
	"github.com/atu-portal/assistant/internal/answer"
	"github.com/atu-portal/assistant/internal/command"
	"github.com/atu-portal/assistant/internal/i18n"
	"github.com/atu-portal/assistant/internal/log"
	"github.com/atu-portal/assistant/internal/postprocess"
	"github.com/atu-portal/assistant/internal/retrieval"
	"github.com/atu-portal/assistant/internal/textutil"
)

// maxSummaryRunes caps the snippet summary used when extraction fails but
// retrieval still found matches.
const maxSummaryRunes = 220

// minSummaryRunes is the minimum useful summary length.
const minSummaryRunes = 20

// CommandExecutor runs confirmed portal commands (clear storage, reload,
// navigation). The chat layer only reports what to do; side effects belong
// to the host surface.
type CommandExecutor interface {
	Execute(ctx context.Context, cmd command.Command) error
}

// Config assembles an Orchestrator.
type Config struct {
	Logger    log.Logger
	Resources *Resources
	Ranker    *retrieval.Ranker
	Generator Generator
	Params    retrieval.Params

	// Executor is optional; without it confirmed commands only produce
	// their reply text.
	Executor CommandExecutor

	// Accounts and Floor are optional and only feed the user context line.
	Accounts accounts.Store
	Floor    accounts.FloorLabelReader
}

func (c *Config) validate() error {
	if c.Resources == nil {
		return errors.New("chat: resources are required")
	}
	if c.Ranker == nil {
		return errors.New("chat: ranker is required")
	}
	if c.Generator == nil {
		return errors.New("chat: generator is required")
	}
	if c.Logger == nil {
		c.Logger = log.NewNop()
	}
	return nil
}

// Orchestrator is the chat session engine. One orchestrator serves one
// session; the busy slot rejects overlapping messages.
type Orchestrator struct {
	logger    log.Logger
	resources *Resources
	ranker    *retrieval.Ranker
	generator Generator
	params    retrieval.Params
	executor  CommandExecutor
	accounts  accounts.Store
	floor     accounts.FloorLabelReader

	session *SessionState
	interp  *command.Interpreter
}

// New builds an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		logger:    cfg.Logger,
		resources: cfg.Resources,
		ranker:    cfg.Ranker,
		generator: cfg.Generator,
		params:    cfg.Params,
		executor:  cfg.Executor,
		accounts:  cfg.Accounts,
		floor:     cfg.Floor,
		session:   NewSessionState(),
		interp:    command.NewInterpreter(),
	}, nil
}

// Session exposes the session state for status surfaces.
func (o *Orchestrator) Session() *SessionState {
	return o.session
}

// EnableRAG toggles retrieval and returns the localized mode line.
func (o *Orchestrator) EnableRAG(enabled bool) string {
	return o.session.SetRAGEnabled(enabled)
}

// ResetSession clears the session latches and the pending command slot.
func (o *Orchestrator) ResetSession() {
	o.session.Reset()
	o.interp.Reset()
}

// UserContext renders the user context line for the current session.
func (o *Orchestrator) UserContext() string {
	if o.accounts == nil {
		return i18n.T("user.guest")
	}
	return accounts.UserContext(o.accounts, o.floor)
}

// HandleMessage processes one user message and returns the reply. onDelta,
// when non-nil, receives generation fragments as they stream.
//
// Infrastructure failures return sentinel errors (ErrBusy,
// ErrEmptyQuestion, ErrContextNotLoaded, ErrEngineNotReady,
// ErrGenerationFailed); LocalizedError maps them to user-facing text.
func (o *Orchestrator) HandleMessage(ctx context.Context, message string, onDelta func(delta string) error) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyQuestion
	}

	if !o.session.TryAcquire() {
		return "", ErrBusy
	}
	defer func() {
		o.session.SetStatus(i18n.T("status.ready"))
		o.session.Release()
	}()

	if reply, consumed, err := o.handleCommand(ctx, message); consumed {
		return reply, err
	}

	if reply, ok := greetingReply(message); ok {
		return reply, nil
	}

	if o.session.RAGEnabled() && looksLikeQuestion(message) {
		reply, ok, err := o.retrieve(ctx, message)
		if err != nil {
			return "", err
		}
		if ok {
			return reply, nil
		}
	}

	return o.generate(ctx, message, onDelta)
}

// handleCommand runs the slash command state machine. consumed reports
// whether the message was handled here.
func (o *Orchestrator) handleCommand(ctx context.Context, message string) (reply string, consumed bool, err error) {
	res := o.interp.Interpret(message)
	switch res.Action {
	case command.ActionExecute:
		if res.Command == command.Profile && o.accounts != nil {
			return accounts.ProfileSummary(o.accounts, o.floor), true, nil
		}
		if res.Command == command.Reload {
			// Refresh the corpus memo so the reloaded page sees fresh
			// context. A failed reload keeps the previous index.
			if _, err := o.resources.Reload(ctx); err != nil {
				o.logger.Warn("context reload failed, keeping previous index", "error", err)
			}
		}
		if o.executor != nil {
			if err := o.executor.Execute(ctx, res.Command); err != nil {
				o.logger.Error("command execution failed", "command", res.Command.String(), "error", err)
				return "", true, fmt.Errorf("executing %s: %w", res.Command, err)
			}
		}
		o.logger.Info("command executed", "command", res.Command.String())
		return res.Message, true, nil
	case command.ActionReply:
		return res.Message, true, nil
	default:
		return "", false, nil
	}
}

// retrieve runs the retrieval pipeline. ok reports a final reply; when it
// is unset the caller falls back to generation, which receives the bare
// question. Retrieved context never travels to the generation engine.
func (o *Orchestrator) retrieve(ctx context.Context, question string) (reply string, ok bool, err error) {
	o.session.SetStatus(i18n.T("status.loading_context"))
	ix, err := o.resources.Index(ctx)
	if err != nil {
		return "", false, err
	}
	o.session.MarkContextLoaded()

	o.session.SetStatus(i18n.T("status.searching"))
	res, err := o.ranker.Rank(ctx, ix, question)
	if err != nil {
		o.logger.Warn("retrieval failed, falling back to generation", "error", err)
		return "", false, nil
	}
	o.session.MarkEmbedderReady()

	if res.BestScore > o.params.ExtractionThreshold && len(res.Selected) > 0 {
		if extracted, extractedOK := answer.Extract(res.Selected[0], ix); extractedOK {
			o.logger.Info("answered by extraction",
				"chunk", res.Selected[0].ID, "score", res.BestScore)
			return extracted, true, nil
		}
	}

	if res.HasMatches {
		if summary := summarizeSnippet(res.Snippet); utf8.RuneCountInString(summary) > minSummaryRunes {
			o.logger.Info("answered by snippet summary", "score", res.BestScore)
			return summary, true, nil
		}
	}

	return "", false, nil
}

// generate runs the generation fallback with cleanup and the final gate.
func (o *Orchestrator) generate(ctx context.Context, question string, onDelta func(delta string) error) (string, error) {
	o.session.SetStatus(i18n.T("status.generating"))

	prompt := BuildPrompt(question)
	raw, err := o.generator.Generate(ctx, prompt, onDelta)
	if err != nil {
		o.logger.Error("generation failed", "error", err)
		return "", err
	}
	o.session.MarkEngineReady()

	cleaned := postprocess.Clean(raw, prompt, question)
	if final, sane := postprocess.Sanitize(cleaned); sane {
		return final, nil
	}

	o.logger.Warn("generated reply rejected by sanitizer", "raw_runes", utf8.RuneCountInString(raw))
	return i18n.T("error.fallback"), nil
}

// Status returns the current session status line.
func (o *Orchestrator) Status() string {
	return o.session.Status()
}

// ContextInfo loads the corpus index if needed and returns its chunk count.
func (o *Orchestrator) ContextInfo(ctx context.Context) (int, error) {
	ix, err := o.resources.Index(ctx)
	if err != nil {
		return 0, err
	}
	o.session.MarkContextLoaded()
	return ix.Len(), nil
}

// LocalizedError maps a HandleMessage error to user-facing text.
func LocalizedError(err error) string {
	switch {
	case errors.Is(err, ErrContextNotLoaded):
		return i18n.T("error.context")
	case errors.Is(err, ErrEmbedderNotReady):
		return i18n.T("error.embedder")
	case errors.Is(err, ErrEngineNotReady):
		return i18n.T("error.engine")
	case errors.Is(err, ErrGenerationFailed):
		return i18n.T("error.generation")
	default:
		return i18n.T("error.fallback")
	}
}

var greetingFamilies = []struct {
	words []string
	key   string
}{
	{[]string{"привет", "хай", "здарова", "прив"}, "greeting.casual"},
	{[]string{"здравствуйте", "здравствуй"}, "greeting.formal"},
	{[]string{"добрый день", "доброе утро", "добрый вечер"}, "greeting.daytime"},
	{[]string{"hello", "hi"}, "greeting.default"},
}

// maxGreetingRunes bounds a message that can count as a bare greeting.
// Longer messages that merely open with one carry a real question.
const maxGreetingRunes = 25

func greetingReply(message string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(message))
	if utf8.RuneCountInString(text) > maxGreetingRunes {
		return "", false
	}
	for _, fam := range greetingFamilies {
		for _, w := range fam.words {
			if greetingMatch(text, w) {
				return i18n.T(fam.key), true
			}
		}
	}
	return "", false
}

// greetingMatch requires the greeting word to be the whole message or to be
// followed by a delimiter, so "привилегии" does not greet.
func greetingMatch(text, word string) bool {
	if text == word {
		return true
	}
	if !strings.HasPrefix(text, word) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[len(word):])
	switch r {
	case ' ', '!', '?', ',', '.':
		return true
	}
	return false
}

var interrogativeRe = regexp.MustCompile(`(?i)(^|[\s,])(что|как|почему|зачем|где|кто|когда|сколько|какой|какая|какие|какую|куда|объясни|расскажи)([\s,?.!]|$)`)

var interrogativePhrases = []string{"можно ли", "есть ли", "нужно ли"}

// looksLikeQuestion decides whether retrieval is worth running. Statements
// skip straight to generation.
func looksLikeQuestion(message string) bool {
	if strings.Contains(message, "?") {
		return true
	}
	lower := strings.ToLower(message)
	if interrogativeRe.MatchString(lower) {
		return true
	}
	for _, p := range interrogativePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

var (
	snippetTitleRe  = regexp.MustCompile(`\[[^\]]*\]\n?`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)
)

// summarizeSnippet folds a retrieval snippet into a short direct reply:
// titles stripped, first two sentences, capped length.
func summarizeSnippet(snippet string) string {
	text := snippetTitleRe.ReplaceAllString(snippet, "")
	text = textutil.CollapseSpace(text)

	sentences := sentenceSplitRe.Split(text, -1)
	kept := make([]string, 0, 2)
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		kept = append(kept, strings.TrimRight(s, ".!?"))
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}

	out := strings.Join(kept, ". ") + "."
	return textutil.TruncateRunes(out, maxSummaryRunes)
}
