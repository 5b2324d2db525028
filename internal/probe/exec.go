package probe

import (
	"context"
	"os/exec"
	"sync"
	"time"
)

// No shell is involved; a target is always a single literal argument.
type Executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, path string, args ...string) ([]byte, error)
}

type osExecutor struct{}

func NewOSExecutor() Executor {
	return osExecutor{}
}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, path string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = time.Second
	return cmd.CombinedOutput()
}

type MockExecutor struct {
	Missing   map[string]bool
	Responder func(name string, args []string) ([]byte, error)

	mu    sync.Mutex
	calls [][]string
}

func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.Missing[file] {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
	return file, nil
}

func (m *MockExecutor) Run(ctx context.Context, path string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string{path}, args...))
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Responder == nil {
		return nil, nil
	}
	return m.Responder(path, args)
}

func (m *MockExecutor) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.calls))
	copy(out, m.calls)
	return out
}
