// Package simulation assembles the pieces of a register bank simulation:
// the engine, the recorded database, the access tracer, and the optional
// monitoring server.
package simulation

import (
	"github.com/sarchlab/regsim/bus"
	"github.com/sarchlab/regsim/datarecording"
	"github.com/sarchlab/regsim/monitoring"
	"github.com/sarchlab/regsim/regbank"
	"github.com/sarchlab/regsim/sim"
	"github.com/sarchlab/regsim/tracing"
)

// A Simulation provides the services required to define a register bank
// simulation.
type Simulation struct {
	id string

	engine       sim.Engine
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	accessTracer *tracing.DBTracer

	components map[string]sim.Component
	buses      map[string]*bus.Bus
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation. It is
// nil when data recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetAccessTracer returns the tracer that records completed accesses. It
// is nil when data recording is disabled.
func (s *Simulation) GetAccessTracer() *tracing.DBTracer {
	return s.accessTracer
}

// RegisterComponent registers a component with the simulation. Register
// bank components are automatically traced and monitored.
func (s *Simulation) RegisterComponent(c sim.Component) {
	name := c.Name()
	if _, exists := s.components[name]; exists {
		panic("component " + name + " already registered")
	}

	s.components[name] = c

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}

	if rb, ok := c.(*regbank.Comp); ok && s.accessTracer != nil {
		tracing.CollectAccesses(rb, s.accessTracer)
	}
}

// RegisterBus registers a bus with the simulation.
func (s *Simulation) RegisterBus(b *bus.Bus) {
	name := b.Name()
	if _, exists := s.buses[name]; exists {
		panic("bus " + name + " already registered")
	}

	s.buses[name] = b
}

// GetComponentByName returns the component with the given name.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	return s.components[name]
}

// GetBusByName returns the bus with the given name.
func (s *Simulation) GetBusByName(name string) *bus.Bus {
	return s.buses[name]
}

// Terminate terminates the simulation, flushing all recorded data.
func (s *Simulation) Terminate() {
	if s.accessTracer != nil {
		s.accessTracer.Terminate()
	}

	if s.dataRecorder != nil {
		s.dataRecorder.Close()
	}
}
