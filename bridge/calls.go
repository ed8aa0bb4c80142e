package bridge

import (
	"fmt"

	"github.com/Zash60/snes-josc/api"
)

// CallRouter dispatches calls coming from the guest.
type CallRouter struct {
	saves   *SaveStateBridge
	onReady func()
}

// NewCallRouter routes save and load calls to saves. onReady may be nil.
func NewCallRouter(saves *SaveStateBridge, onReady func()) *CallRouter {
	return &CallRouter{saves: saves, onReady: onReady}
}

// HandleCall handles one guest call. It runs on the UI loop and only
// queues work; storage access happens on the background pool.
func (c *CallRouter) HandleCall(name string, args []string) error {
	switch name {
	case api.CallSaveState:
		if len(args) != 2 {
			return fmt.Errorf("%s: %s: want 2, got %d", name, msgBadArguments, len(args))
		}
		c.saves.SaveAsync(args[1], args[0])
	case api.CallLoadState:
		if len(args) != 1 {
			return fmt.Errorf("%s: %s: want 1, got %d", name, msgBadArguments, len(args))
		}
		c.saves.LoadAsync(args[0])
	case api.CallReady:
		if c.onReady != nil {
			c.onReady()
		}
	default:
		return fmt.Errorf("%s: %q", msgUnknownCall, name)
	}
	return nil
}
