package rustbind

import "sync"

var exitHooks struct {
	mu    sync.Mutex
	funcs []func()
}

// AtExit schedules fn to run when RunExitHooks is called. Commands built on
// this package call RunExitHooks right before the process exits; a killed
// process runs nothing.
func AtExit(fn func()) {
	exitHooks.mu.Lock()
	defer exitHooks.mu.Unlock()
	exitHooks.funcs = append(exitHooks.funcs, fn)
}

// RunExitHooks runs and clears all scheduled hooks, most recent first.
// A panicking hook is swallowed so the remaining hooks still run.
func RunExitHooks() {
	exitHooks.mu.Lock()
	funcs := exitHooks.funcs
	exitHooks.funcs = nil
	exitHooks.mu.Unlock()

	for i := len(funcs) - 1; i >= 0; i-- {
		runHook(funcs[i])
	}
}

func runHook(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
