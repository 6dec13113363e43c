// Package script provides the engine's script-execution collaborator.
// Full script execution is out of scope for this engine: the navigation
// orchestrator still extracts and hands script text to an executor at
// every ReasonScript suspension, but the executor's job is only to
// run best-effort and never fail a navigation — this is a deliberately
// minimal stand-in for a full DOM-bound JS engine, not one.
package script

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
)

// Result records what happened when a script ran, for diagnostics only —
// nothing downstream branches on it.
type Result struct {
	URL string
	Err error
}

// Executor runs script text in an isolated goja VM with no DOM bindings.
// Each call gets a fresh *goja.Runtime: scripts in this engine cannot
// observe or mutate page state, so there is nothing worth sharing between
// executions, and isolating them avoids one script's global pollution
// leaking into the next.
type Executor struct {
	mu      sync.Mutex
	history []Result
}

// NewExecutor creates a script executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs source (from the document at url, which may be empty for
// an inline script) and swallows any error: script execution is a stub
// in this engine, so a broken script must never abort a navigation.
func (e *Executor) Execute(url, source string) {
	err := e.run(source)

	e.mu.Lock()
	e.history = append(e.history, Result{URL: url, Err: err})
	e.mu.Unlock()
}

func (e *Executor) run(source string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script: panic during execution: %v", r)
		}
	}()

	vm := goja.New()
	_, err = vm.RunString(source)
	return err
}

// History returns every Execute call's outcome so far, most recent last.
func (e *Executor) History() []Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Result, len(e.history))
	copy(out, e.history)
	return out
}
