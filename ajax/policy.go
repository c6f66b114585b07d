package ajax

import "sync"

// Policy decides which callers may reach an action.
type Policy int

const (
	Open Policy = iota
	AjaxOnly
)

func (p Policy) String() string {
	switch p {
	case Open:
		return "open"
	case AjaxOnly:
		return "ajax-only"
	default:
		return "unknown"
	}
}

// Registry is the static access-policy table, filled once at startup:
// controller identifier -> handler name ("<action>Action") -> policy.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]map[string]Policy
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]map[string]Policy{}}
}

// Register records the policy of action on controller. Registering the same
// action twice keeps the last policy.
func (r *Registry) Register(controller, action string, p Policy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers, ok := r.handlers[controller]
	if !ok {
		handlers = map[string]Policy{}
		r.handlers[controller] = handlers
	}
	handlers[action+HandlerSuffix] = p
}

// Lookup reports the policy of action and whether such a handler exists.
func (r *Registry) Lookup(controller, action string) (Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.handlers[controller][action+HandlerSuffix]
	return p, ok
}
