package regbank

import (
	"github.com/sarchlab/regsim/bus"
	"github.com/sarchlab/regsim/sim"
)

// Builder builds register bank components.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	policy     Policy
	dataWidth  int
	depth      int
	resetValue uint64
}

// MakeBuilder returns a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		freq:      1 * sim.GHz,
		policy:    TwoPhaseRegistered,
		dataWidth: 32,
		depth:     16,
	}
}

// WithEngine sets the engine that drives the component.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency of the register bank.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithPolicy sets the timing policy.
func (b Builder) WithPolicy(policy Policy) Builder {
	b.policy = policy
	return b
}

// WithDataWidth sets the width of each register in bits.
func (b Builder) WithDataWidth(dataWidth int) Builder {
	b.dataWidth = dataWidth
	return b
}

// WithDepth sets the number of registers. The depth must be a power of
// two.
func (b Builder) WithDepth(depth int) Builder {
	b.depth = depth
	return b
}

// WithResetValue sets the value every register holds after reset.
func (b Builder) WithResetValue(resetValue uint64) Builder {
	b.resetValue = resetValue
	return b
}

// Build builds a register bank component. It panics if the depth is not a
// power of two; configuration is validated at construction time only.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}

	storage := NewStorage(b.depth, b.dataWidth)
	c.ctrl = NewController(b.policy, storage, b.resetValue)

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.busEP = bus.NewEndpoint(c, name+".Bus")

	return c
}
