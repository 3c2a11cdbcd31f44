package tracing

import (
	"github.com/sarchlab/regsim/regbank"
	"github.com/sarchlab/regsim/sim"
)

// CollectAccesses attaches a tracer to a register bank component so that
// the tracer sees every transaction the bank services.
func CollectAccesses(comp *regbank.Comp, tracer Tracer) {
	comp.AcceptHook(&accessHook{t: tracer})
}

// An accessHook translates register bank hook invocations into tracer
// calls. The bank services one transaction at a time, so a single phase
// counter is enough.
type accessHook struct {
	t Tracer

	inflight bool
	phases   int
}

func (h *accessHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case regbank.HookPosPhaseChange:
		if h.inflight {
			h.phases++
		}
	case regbank.HookPosAccessStart:
		h.inflight = true
		h.phases = 1
		h.t.StartAccess(h.accessFromTask(ctx.Item.(regbank.AccessTask)))
	case regbank.HookPosAccessComplete:
		if !h.inflight {
			h.phases = 1
		}

		access := h.accessFromTask(ctx.Item.(regbank.AccessTask))
		access.Phases = h.phases
		h.inflight = false
		h.t.EndAccess(access)
	}
}

func (h *accessHook) accessFromTask(task regbank.AccessTask) Access {
	kind := AccessKindRead
	if task.Write {
		kind = AccessKindWrite
	}

	return Access{
		ID:      task.ID,
		Kind:    kind,
		Where:   task.Where,
		Address: task.Address,
		Data:    task.Data,
	}
}
