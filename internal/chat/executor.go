package chat

import (
	"context"
	"sync"

	"github.com/atu-portal/assistant/internal/command"
)

// CommandRecorder is a CommandExecutor that records the confirmed command
// instead of performing it. Embedding surfaces (the HTTP API, the page
// layer) read the recorded command and perform the side effect themselves,
// keeping the chat core free of navigation and storage concerns.
type CommandRecorder struct {
	mu   sync.Mutex
	last command.Command
}

// Execute records cmd.
func (r *CommandRecorder) Execute(_ context.Context, cmd command.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = cmd
	return nil
}

// Take returns the recorded command and clears the slot.
func (r *CommandRecorder) Take() command.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	cmd := r.last
	r.last = command.None
	return cmd
}
