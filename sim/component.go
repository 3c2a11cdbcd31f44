package sim

// A Named object has a name. Names are globally unique in a simulation.
type Named interface {
	Name() string
}

// A Component is an element being simulated. It handles its own events and
// exposes hooks.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides the functions that all components need.
type ComponentBase struct {
	HookableBase
	name string
}

// NewComponentBase creates a new ComponentBase.
func NewComponentBase(name string) *ComponentBase {
	c := new(ComponentBase)
	c.name = name
	return c
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
