// Package busmaster provides a stimulus agent that plays a program of
// single-beat transactions against a register bank, driving the
// select/enable shape that the bank's timing policy expects.
package busmaster

import (
	"github.com/sarchlab/regsim/bus"
	"github.com/sarchlab/regsim/regbank"
	"github.com/sarchlab/regsim/sim"
)

// A Transaction is one single-beat transfer, or a reset pulse, in the
// master's program. Timing and read payload are filled in as the
// transaction completes.
type Transaction struct {
	Reset     bool
	Write     bool
	Address   uint32
	WriteData uint64

	StartTime sim.VTimeInSec
	EndTime   sim.VTimeInSec

	// ReadyDelay is the number of cycles between driving the request and
	// observing ready.
	ReadyDelay int

	ReadData uint64
	Done     bool
}

type masterState int

const (
	stateIdle masterState = iota
	stateWaitReady
	stateEnable
	stateAccess
	stateResetting
	stateTurnaround
)

// driveEvent triggers the master to update the bus lines. The master
// drives at falling edges so that the device always samples settled
// values on its rising edges.
type driveEvent struct {
	*sim.EventBase
}

// Comp drives the master side of a bus. It owns its own event stream and
// stops scheduling once its program is exhausted, so a simulation with an
// idle master runs out of events and terminates.
type Comp struct {
	*sim.ComponentBase

	engine sim.Engine
	freq   sim.Freq
	policy regbank.Policy
	busEP  *bus.Endpoint

	pending   []*Transaction
	completed []*Transaction
	current   *Transaction
	state     masterState
	driving   bool
}

// MasterEndpoint returns the endpoint to plug into a bus as the master
// side.
func (c *Comp) MasterEndpoint() *bus.Endpoint {
	return c.busEP
}

// NotifyRecv does nothing. The master is self-clocked and samples the
// response lines on its own falling edges.
func (c *Comp) NotifyRecv() {}

// AddWrite enqueues a write transaction.
func (c *Comp) AddWrite(address uint32, data uint64) *Transaction {
	return c.enqueue(&Transaction{
		Write:     true,
		Address:   address,
		WriteData: data,
	})
}

// AddRead enqueues a read transaction.
func (c *Comp) AddRead(address uint32) *Transaction {
	return c.enqueue(&Transaction{Address: address})
}

// AddReset enqueues a one-cycle reset pulse.
func (c *Comp) AddReset() *Transaction {
	return c.enqueue(&Transaction{Reset: true})
}

// Completed returns the transactions that have finished, in completion
// order.
func (c *Comp) Completed() []*Transaction {
	return c.completed
}

func (c *Comp) enqueue(t *Transaction) *Transaction {
	c.pending = append(c.pending, t)

	if !c.driving {
		c.driving = true
		c.scheduleDriveAt(c.freq.HalfTick(c.engine.CurrentTime()))
	}

	return t
}

func (c *Comp) scheduleDriveAt(t sim.VTimeInSec) {
	c.engine.Schedule(&driveEvent{
		EventBase: sim.NewEventBase(t, c),
	})
}

// Handle advances the master by one falling edge.
func (c *Comp) Handle(e sim.Event) error {
	switch e.(type) {
	case *driveEvent:
		c.drive(e.Time())
	default:
		panic("busmaster cannot handle this event type")
	}

	return nil
}

func (c *Comp) drive(now sim.VTimeInSec) {
	rsp := c.busEP.SampleResponse()

	switch c.state {
	case stateIdle, stateTurnaround:
		c.startNext(now)
	case stateWaitReady:
		c.waitReady(now, rsp)
	case stateEnable:
		c.captureAndFinish(now, rsp.ReadData)
	case stateAccess, stateResetting:
		c.finish(now)
	}

	if c.state == stateIdle && len(c.pending) == 0 {
		c.driving = false
		return
	}

	c.scheduleDriveAt(now + c.freq.Period())
}

func (c *Comp) startNext(now sim.VTimeInSec) {
	if len(c.pending) == 0 {
		c.state = stateIdle
		return
	}

	c.current = c.pending[0]
	c.pending = c.pending[1:]
	c.current.StartTime = now

	if c.current.Reset {
		c.busEP.DriveRequest(bus.Request{Reset: true})
		c.state = stateResetting
		return
	}

	req := bus.Request{
		Select:    true,
		Write:     c.current.Write,
		Address:   c.current.Address,
		WriteData: c.current.WriteData,
	}
	if c.policy == regbank.TwoPhaseRegistered {
		req.Enable = true
	}

	c.busEP.DriveRequest(req)
	c.state = stateWaitReady
}

func (c *Comp) waitReady(now sim.VTimeInSec, rsp bus.Response) {
	c.current.ReadyDelay++

	if !rsp.Ready {
		return
	}

	switch c.policy {
	case regbank.TwoPhaseRegistered:
		c.captureAndFinish(now, rsp.ReadData)
	case regbank.ThreePhaseEarlyReady:
		// Read data is valid one cycle early, during setup.
		c.current.ReadData = rsp.ReadData
		c.driveEnable()
		c.state = stateAccess
	case regbank.CombinationalHold:
		c.driveEnable()
		c.state = stateEnable
	}
}

func (c *Comp) driveEnable() {
	c.busEP.DriveRequest(bus.Request{
		Select:    true,
		Enable:    true,
		Write:     c.current.Write,
		Address:   c.current.Address,
		WriteData: c.current.WriteData,
	})
}

func (c *Comp) captureAndFinish(now sim.VTimeInSec, readData uint64) {
	c.current.ReadData = readData
	c.finish(now)
}

func (c *Comp) finish(now sim.VTimeInSec) {
	c.current.EndTime = now
	c.current.Done = true
	c.completed = append(c.completed, c.current)
	c.current = nil

	c.busEP.DriveRequest(bus.Request{})
	c.state = stateTurnaround
}
