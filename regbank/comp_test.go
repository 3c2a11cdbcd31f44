package regbank

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/regsim/bus"
	"github.com/sarchlab/regsim/sim"
)

type stubMaster struct {
	name        string
	notifyCount int
}

func (m *stubMaster) Name() string {
	return m.name
}

func (m *stubMaster) NotifyRecv() {
	m.notifyCount++
}

type itemRecordingHook struct {
	items []sim.HookCtx
}

func (h *itemRecordingHook) Func(ctx sim.HookCtx) {
	h.items = append(h.items, ctx)
}

var _ = Describe("Comp", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockEngine
		comp     *Comp
		master   *stubMaster
		masterEP *bus.Endpoint
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		engine.EXPECT().CurrentTime().
			Return(sim.VTimeInSec(0)).AnyTimes()
		engine.EXPECT().Schedule(gomock.Any()).AnyTimes()

		comp = MakeBuilder().
			WithEngine(engine).
			WithPolicy(TwoPhaseRegistered).
			WithDataWidth(8).
			WithDepth(8).
			Build("RegBank")

		master = &stubMaster{name: "Master"}
		masterEP = bus.NewEndpoint(master, "Master.Bus")
		bus.Connect("Bus", masterEP, comp.DeviceEndpoint())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should stay asleep while the bus is quiet", func() {
		madeProgress := comp.Tick()

		Expect(madeProgress).To(BeFalse())
	})

	It("should service a write sampled from the bus", func() {
		masterEP.DriveRequest(bus.Request{
			Select: true, Enable: true, Write: true,
			Address: 3, WriteData: 0xBB,
		})

		madeProgress := comp.Tick()

		Expect(madeProgress).To(BeTrue())
		Expect(comp.Registers()[3]).To(Equal(uint64(0xBB)))
		Expect(masterEP.SampleResponse().Ready).To(BeTrue())
	})

	It("should drive read data back to the master", func() {
		masterEP.DriveRequest(bus.Request{
			Select: true, Enable: true, Write: true,
			Address: 3, WriteData: 0xBB,
		})
		comp.Tick()
		masterEP.DriveRequest(bus.Request{})
		comp.Tick()

		masterEP.DriveRequest(bus.Request{
			Select: true, Enable: true, Address: 3,
		})
		comp.Tick()

		rsp := masterEP.SampleResponse()
		Expect(rsp.Ready).To(BeTrue())
		Expect(rsp.ReadData).To(Equal(uint64(0xBB)))
	})

	It("should notify the master when the response lines change", func() {
		masterEP.DriveRequest(bus.Request{
			Select: true, Enable: true, Address: 3,
		})
		notifiedBefore := master.notifyCount

		comp.Tick()

		Expect(master.notifyCount).To(BeNumerically(">", notifiedBefore))
	})

	It("should make progress on reset even when idle", func() {
		masterEP.DriveRequest(bus.Request{Reset: true})

		madeProgress := comp.Tick()

		Expect(madeProgress).To(BeTrue())
	})

	It("should reset the registers through the bus", func() {
		c := MakeBuilder().
			WithEngine(engine).
			WithDataWidth(8).
			WithDepth(8).
			WithResetValue(0xAA).
			Build("RegBankWithResetValue")
		ep := bus.NewEndpoint(master, "Master.Bus2")
		bus.Connect("Bus2", ep, c.DeviceEndpoint())

		ep.DriveRequest(bus.Request{
			Select: true, Enable: true, Write: true,
			Address: 2, WriteData: 0x42,
		})
		c.Tick()
		ep.DriveRequest(bus.Request{Reset: true})
		c.Tick()

		for _, v := range c.Registers() {
			Expect(v).To(Equal(uint64(0xAA)))
		}
	})

	It("should invoke phase change hooks", func() {
		hook := &itemRecordingHook{}
		comp.AcceptHook(hook)

		masterEP.DriveRequest(bus.Request{
			Select: true, Enable: true, Address: 3,
		})
		comp.Tick()
		masterEP.DriveRequest(bus.Request{})
		comp.Tick()

		var transitions []PhaseTransition
		for _, ctx := range hook.items {
			if ctx.Pos == HookPosPhaseChange {
				transitions = append(
					transitions, ctx.Item.(PhaseTransition))
			}
		}
		Expect(transitions).To(Equal([]PhaseTransition{
			{From: PhaseIdle, To: PhaseAccess},
			{From: PhaseAccess, To: PhaseIdle},
		}))
	})

	It("should report access start and completion", func() {
		hook := &itemRecordingHook{}
		comp.AcceptHook(hook)

		masterEP.DriveRequest(bus.Request{
			Select: true, Enable: true, Write: true,
			Address: 3, WriteData: 0xBB,
		})
		comp.Tick()

		var started, completed []AccessTask
		for _, ctx := range hook.items {
			switch ctx.Pos {
			case HookPosAccessStart:
				started = append(started, ctx.Item.(AccessTask))
			case HookPosAccessComplete:
				completed = append(completed, ctx.Item.(AccessTask))
			}
		}

		Expect(started).To(HaveLen(1))
		Expect(completed).To(HaveLen(1))
		Expect(started[0].ID).To(Equal(completed[0].ID))
		Expect(completed[0].Where).To(Equal("RegBank"))
		Expect(completed[0].Write).To(BeTrue())
		Expect(completed[0].Address).To(Equal(uint32(3)))
		Expect(completed[0].Data).To(Equal(uint64(0xBB)))
	})

	It("should carry one task across the setup and access phases", func() {
		c := MakeBuilder().
			WithEngine(engine).
			WithPolicy(ThreePhaseEarlyReady).
			WithDataWidth(8).
			WithDepth(8).
			Build("ThreePhaseRegBank")
		ep := bus.NewEndpoint(master, "Master.Bus3")
		bus.Connect("Bus3", ep, c.DeviceEndpoint())

		hook := &itemRecordingHook{}
		c.AcceptHook(hook)

		ep.DriveRequest(bus.Request{Select: true, Address: 2})
		c.Tick()
		ep.DriveRequest(bus.Request{
			Select: true, Enable: true, Address: 2,
		})
		c.Tick()
		ep.DriveRequest(bus.Request{})
		c.Tick()

		var started, completed []AccessTask
		for _, ctx := range hook.items {
			switch ctx.Pos {
			case HookPosAccessStart:
				started = append(started, ctx.Item.(AccessTask))
			case HookPosAccessComplete:
				completed = append(completed, ctx.Item.(AccessTask))
			}
		}

		Expect(started).To(HaveLen(1))
		Expect(completed).To(HaveLen(1))
		Expect(started[0].ID).To(Equal(completed[0].ID))
	})
})
