// Package hooks provides the default no-op lifecycle hooks.
package hooks

import (
	"context"

	"github.com/arloliu/distboost/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnPlacementResolved: h.OnPlacementResolved,
		OnTaskCompleted:     h.OnTaskCompleted,
		OnError:             h.OnError,
	}
}

// OnPlacementResolved is a no-op implementation.
func (h *NopHooks) OnPlacementResolved(_ context.Context, _ map[string]int, _ string) error {
	return nil
}

// OnTaskCompleted is a no-op implementation.
func (h *NopHooks) OnTaskCompleted(_ context.Context, _ string, _ error) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
