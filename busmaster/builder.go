package busmaster

import (
	"github.com/sarchlab/regsim/bus"
	"github.com/sarchlab/regsim/regbank"
	"github.com/sarchlab/regsim/sim"
)

// Builder builds bus master components.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	policy regbank.Policy
}

// MakeBuilder returns a builder with default configuration.
func MakeBuilder() Builder {
	return Builder{
		freq:   1 * sim.GHz,
		policy: regbank.TwoPhaseRegistered,
	}
}

// WithEngine sets the engine that drives the component.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the bus clock frequency. The master drives the lines at
// falling edges, so it must share the frequency of the device it talks
// to.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithPolicy sets the timing policy of the device so the master drives
// the matching select/enable shape.
func (b Builder) WithPolicy(policy regbank.Policy) Builder {
	b.policy = policy
	return b
}

// Build builds a bus master component.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		engine:        b.engine,
		freq:          b.freq,
		policy:        b.policy,
	}

	c.busEP = bus.NewEndpoint(c, name+".Bus")

	return c
}
