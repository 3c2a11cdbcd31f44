// Package regbank provides a cycle-accurate model of a synchronous,
// bus-accessed register bank. A single controller owns a fixed array of
// registers and services one single-beat read or write transaction at a
// time through a select/enable/ready handshake.
package regbank

import (
	"github.com/sarchlab/regsim/bus"
	"github.com/sarchlab/regsim/sim"
)

var (
	// HookPosPhaseChange triggers when the controller moves to a
	// different transaction phase. The hook item is a PhaseTransition.
	HookPosPhaseChange = &sim.HookPos{Name: "RegBank Phase Change"}

	// HookPosAccessStart triggers when the controller leaves Idle to
	// service a transaction. The hook item is an AccessTask.
	HookPosAccessStart = &sim.HookPos{Name: "RegBank Access Start"}

	// HookPosAccessComplete triggers on the edge that commits a write or
	// latches a read. The hook item is an AccessTask.
	HookPosAccessComplete = &sim.HookPos{Name: "RegBank Access Complete"}
)

// A PhaseTransition describes one phase change of the controller.
type PhaseTransition struct {
	From Phase
	To   Phase
}

// An AccessTask identifies one transaction as it flows through the
// controller, for tracers to record.
type AccessTask struct {
	ID      string
	Where   string
	Write   bool
	Address uint32
	Data    uint64
}

// Comp wraps a Controller into a ticking component. On every cycle it
// samples the request lines from its bus endpoint, advances the
// controller by one edge, and drives the response lines back.
type Comp struct {
	*sim.TickingComponent

	ctrl  *Controller
	busEP *bus.Endpoint

	currentTask *AccessTask
}

// DeviceEndpoint returns the endpoint to plug into a bus as the device
// side.
func (c *Comp) DeviceEndpoint() *bus.Endpoint {
	return c.busEP
}

// Controller returns the transaction state machine of the component.
func (c *Comp) Controller() *Controller {
	return c.ctrl
}

// Registers returns a copy of the current register contents.
func (c *Comp) Registers() []uint64 {
	return c.ctrl.Snapshot()
}

// Tick advances the register bank by one clock cycle.
func (c *Comp) Tick() bool {
	req := c.busEP.SampleRequest()

	prevPhase := c.ctrl.Phase()
	rsp, access := c.ctrl.OnClockEdge(req)
	newPhase := c.ctrl.Phase()

	c.busEP.DriveResponse(rsp)

	c.invokeTransactionHooks(prevPhase, newPhase, req, access)

	// The component goes back to sleep once the bus is quiet; a new drive
	// on the request lines wakes it up again.
	return req.Reset || prevPhase != PhaseIdle || newPhase != PhaseIdle
}

func (c *Comp) invokeTransactionHooks(
	prevPhase, newPhase Phase,
	req bus.Request,
	access *Access,
) {
	if newPhase != prevPhase {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosPhaseChange,
			Item:   PhaseTransition{From: prevPhase, To: newPhase},
		})
	}

	if prevPhase == PhaseIdle && newPhase != PhaseIdle {
		c.currentTask = &AccessTask{
			ID:      sim.GetIDGenerator().Generate(),
			Where:   c.Name(),
			Write:   req.Write,
			Address: req.Address,
			Data:    req.WriteData,
		}

		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosAccessStart,
			Item:   *c.currentTask,
		})
	}

	if access == nil {
		return
	}

	task := c.currentTask
	if task == nil {
		// The two-phase policy starts and completes on the same edge.
		task = &AccessTask{
			ID:    sim.GetIDGenerator().Generate(),
			Where: c.Name(),
		}
	}
	task.Write = access.Write
	task.Address = access.Address
	task.Data = access.Data

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosAccessComplete,
		Item:   *task,
	})
	c.currentTask = nil
}
