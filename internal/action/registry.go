package action

import (
	"fmt"
	"sync"

	"github.com/steve-rackham/azfleet/internal/model"
	azfleeterrors "github.com/steve-rackham/azfleet/pkg/errors"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[model.Action]Handler)
)

// Register adds a handler for its action.
func Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("handler is nil")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[h.Action()]; exists {
		return fmt.Errorf("action %q: handler already registered", h.Action())
	}

	registry[h.Action()] = h
	return nil
}

// Get retrieves the handler for an action.
func Get(a model.Action) (Handler, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	h, ok := registry[a]
	if !ok {
		return nil, azfleeterrors.NewUnsupportedActionError(string(a), "no handler registered")
	}

	return h, nil
}

// ResetRegistry clears handler registrations. The CLI registers exactly one
// handler per invocation; tests reset between cases.
func ResetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[model.Action]Handler)
}
