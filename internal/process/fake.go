package process

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Reply is a scripted response for one binary.
type Reply struct {
	Result Result
	Err    error

	// Hook runs before the reply is returned. Tests use it to create files a
	// real tool would have written.
	Hook func(cmd Command)

	// Func, when set, computes the reply from the command and replaces
	// Result and Err. It lets one binary answer differently per subcommand.
	Func func(cmd Command) (Result, error)
}

// ScriptedRunner is an in-memory Runner that answers by binary name and
// records every call. It lets stage and pipeline tests run without any of the
// real tools installed.
type ScriptedRunner struct {
	mu      sync.Mutex
	replies map[string]Reply
	calls   []Command
	stdin   map[string][]byte
}

// NewScriptedRunner creates an empty ScriptedRunner. Unscripted binaries fail
// with an execution error, as if they were not installed.
func NewScriptedRunner() *ScriptedRunner {
	return &ScriptedRunner{
		replies: make(map[string]Reply),
		stdin:   make(map[string][]byte),
	}
}

// On scripts the reply for a binary.
func (s *ScriptedRunner) On(name string, reply Reply) *ScriptedRunner {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[name] = reply
	return s
}

// Stdout scripts a successful run printing out.
func (s *ScriptedRunner) Stdout(name, out string) *ScriptedRunner {
	return s.On(name, Reply{Result: Result{Stdout: []byte(out)}})
}

// Exit scripts a run that exits with code.
func (s *ScriptedRunner) Exit(name string, code int) *ScriptedRunner {
	return s.On(name, Reply{Result: Result{ExitCode: code}})
}

// Run implements Runner.
func (s *ScriptedRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	s.calls = append(s.calls, cmd)
	reply, ok := s.replies[cmd.Name]
	if cmd.Stdin != nil {
		data, _ := io.ReadAll(cmd.Stdin)
		s.stdin[cmd.Name] = data
	}
	s.mu.Unlock()

	if !ok {
		return Result{}, fmt.Errorf("failed to execute %s: executable file not found in $PATH", cmd.Name)
	}
	if reply.Hook != nil {
		reply.Hook(cmd)
	}
	if reply.Func != nil {
		return reply.Func(cmd)
	}
	return reply.Result, reply.Err
}

// Calls returns the recorded invocations in order.
func (s *ScriptedRunner) Calls() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Command, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded invocations of one binary.
func (s *ScriptedRunner) CallsTo(name string) []Command {
	var out []Command
	for _, c := range s.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// StdinOf returns the bytes piped to the last invocation of name.
func (s *ScriptedRunner) StdinOf(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stdin[name]
}
