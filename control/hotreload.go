// control/hotreload.go
// Manages global hot-reload hooks for config changes.
// TriggerHotReloadSync exists for deterministic test notification.

package control

import "sync"

var (
	reloadMu    sync.Mutex
	reloadHooks []func()
)

// RegisterReloadHook adds a new component reload listener.
func RegisterReloadHook(fn func()) {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	reloadHooks = append(reloadHooks, fn)
}

// TriggerHotReload dispatches all reload hooks asynchronously.
func TriggerHotReload() {
	reloadMu.Lock()
	hooks := make([]func(), len(reloadHooks))
	copy(hooks, reloadHooks)
	reloadMu.Unlock()
	for _, fn := range hooks {
		go fn()
	}
}

// TriggerHotReloadSync invokes all reload hooks synchronously (for test determinism).
func TriggerHotReloadSync() {
	reloadMu.Lock()
	hooks := make([]func(), len(reloadHooks))
	copy(hooks, reloadHooks)
	reloadMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}
