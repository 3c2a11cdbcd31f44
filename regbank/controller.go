package regbank

import (
	"github.com/sarchlab/regsim/bus"
)

// An Access describes one completed storage access, either a write commit
// or a read latch.
type Access struct {
	Write   bool
	Address uint32
	Data    uint64
}

// A Controller models the synchronous state machine of a bus-accessed
// register bank. It is a pure cycle-driven core with no dependency on the
// event engine; Comp wraps it into a ticking component.
//
// OnClockEdge advances the controller by one rising edge. The request
// argument carries the input lines as sampled at that edge, and the
// returned response carries the output lines as the master observes them
// after the edge. The half-cycle lookahead of the two-phase policy and
// the combinational outputs of the hold policy are folded into this
// single call by splitting each edge into a pure next-phase decision
// followed by a commit.
type Controller struct {
	policy     Policy
	storage    *Storage
	resetValue uint64

	phase    Phase
	ready    bool
	readData uint64
}

// NewController creates a controller over the given storage. The storage
// is initialized to the reset value, as if reset had been asserted.
func NewController(
	policy Policy,
	storage *Storage,
	resetValue uint64,
) *Controller {
	c := &Controller{
		policy:     policy,
		storage:    storage,
		resetValue: resetValue,
	}

	c.storage.ResetAll(resetValue)

	return c
}

// Phase returns the current transaction phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Policy returns the timing policy of the controller.
func (c *Controller) Policy() Policy {
	return c.policy
}

// ResetValue returns the value every register holds after reset.
func (c *Controller) ResetValue() uint64 {
	return c.resetValue
}

// Depth returns the number of registers in the bank.
func (c *Controller) Depth() int {
	return c.storage.Depth()
}

// Snapshot returns a copy of the register contents.
func (c *Controller) Snapshot() []uint64 {
	return c.storage.Snapshot()
}

// NextPhase computes the phase the controller enters at the next rising
// edge, given the current phase and the sampled request lines. It is a
// pure function of its inputs and the current phase; every combination
// that is not explicitly part of a policy's transition table falls back
// to Idle.
func (c *Controller) NextPhase(req bus.Request) Phase {
	if req.Reset {
		return PhaseIdle
	}

	switch c.policy {
	case TwoPhaseRegistered:
		if req.Select && req.Enable {
			return PhaseAccess
		}
	case ThreePhaseEarlyReady:
		switch c.phase {
		case PhaseIdle:
			if req.Select && !req.Enable {
				return PhaseSetup
			}
		case PhaseSetup:
			if req.Select && req.Enable {
				return PhaseAccess
			}
		}
	case CombinationalHold:
		switch c.phase {
		case PhaseIdle:
			if req.Select {
				return PhaseAccess
			}
		case PhaseAccess:
			if !req.Enable {
				return PhaseAccess
			}
		}
	}

	return PhaseIdle
}

// OnClockEdge advances the controller by one rising clock edge. It
// performs at most one storage mutation or one read latch, and returns
// the response lines together with the access that completed on this
// edge, if any.
func (c *Controller) OnClockEdge(req bus.Request) (bus.Response, *Access) {
	if req.Reset {
		c.phase = PhaseIdle
		c.ready = false
		c.readData = 0
		c.storage.ResetAll(c.resetValue)

		return bus.Response{}, nil
	}

	prev := c.phase
	next := c.NextPhase(req)

	var access *Access
	switch c.policy {
	case TwoPhaseRegistered:
		access = c.commitTwoPhase(next, req)
	case ThreePhaseEarlyReady:
		access = c.commitThreePhase(next, req)
	case CombinationalHold:
		access = c.commitCombinationalHold(prev, next, req)
	default:
		c.ready = false
		c.readData = 0
	}

	c.phase = next

	return bus.Response{Ready: c.ready, ReadData: c.readData}, access
}

// commitTwoPhase commits during Access. Ready is registered, so it is
// observable the cycle after the request lines selected the device, and
// readData is registered together with it.
func (c *Controller) commitTwoPhase(next Phase, req bus.Request) *Access {
	if next != PhaseAccess {
		c.ready = false
		c.readData = 0
		return nil
	}

	c.ready = true
	return c.execute(req)
}

// commitThreePhase commits on entering Setup, one cycle before Access.
// Ready is only high during Setup, while readData is held through Access
// so the master can sample it when the transfer completes.
func (c *Controller) commitThreePhase(next Phase, req bus.Request) *Access {
	switch next {
	case PhaseSetup:
		c.ready = true
		return c.execute(req)
	case PhaseAccess:
		c.ready = false
		return nil
	default:
		c.ready = false
		c.readData = 0
		return nil
	}
}

// commitCombinationalHold executes on the edge that samples enable while
// the controller is in Access. Ready reflects the post-edge phase, so it
// is high for every cycle the controller waits in Access.
func (c *Controller) commitCombinationalHold(
	prev, next Phase,
	req bus.Request,
) *Access {
	c.ready = next == PhaseAccess

	if prev == PhaseAccess && req.Enable {
		return c.execute(req)
	}

	c.readData = 0
	return nil
}

// execute performs the single storage access of a transaction. The write
// flag makes the two directions mutually exclusive; a write leaves the
// read data lines at their quiescent zero value.
func (c *Controller) execute(req bus.Request) *Access {
	if req.Write {
		c.storage.Write(req.Address, req.WriteData)
		c.readData = 0

		return &Access{
			Write:   true,
			Address: req.Address,
			Data:    req.WriteData,
		}
	}

	c.readData = c.storage.Read(req.Address)

	return &Access{
		Address: req.Address,
		Data:    c.readData,
	}
}
