package tracing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/regsim/bus"
	"github.com/sarchlab/regsim/regbank"
	"github.com/sarchlab/regsim/sim"
	"github.com/sarchlab/regsim/tracing"
)

type recordingTracer struct {
	started []tracing.Access
	ended   []tracing.Access
}

func (t *recordingTracer) StartAccess(access tracing.Access) {
	t.started = append(t.started, access)
}

func (t *recordingTracer) EndAccess(access tracing.Access) {
	t.ended = append(t.ended, access)
}

type quietMaster struct{}

func (m *quietMaster) Name() string { return "Master" }
func (m *quietMaster) NotifyRecv()  {}

var _ = Describe("CollectAccesses", func() {
	var (
		bank     *regbank.Comp
		masterEP *bus.Endpoint
		tracer   *recordingTracer
	)

	BeforeEach(func() {
		engine := sim.NewSerialEngine()
		bank = regbank.MakeBuilder().
			WithEngine(engine).
			WithPolicy(regbank.CombinationalHold).
			WithDataWidth(8).
			WithDepth(8).
			Build("RegBank")

		masterEP = bus.NewEndpoint(&quietMaster{}, "Master.Bus")
		bus.Connect("Bus", masterEP, bank.DeviceEndpoint())

		tracer = &recordingTracer{}
		tracing.CollectAccesses(bank, tracer)
	})

	It("should report one access per transaction", func() {
		masterEP.DriveRequest(bus.Request{
			Select: true, Write: true, Address: 5, WriteData: 0x77,
		})
		bank.Tick()
		masterEP.DriveRequest(bus.Request{
			Select: true, Enable: true, Write: true,
			Address: 5, WriteData: 0x77,
		})
		bank.Tick()

		Expect(tracer.started).To(HaveLen(1))
		Expect(tracer.ended).To(HaveLen(1))
		Expect(tracer.started[0].ID).To(Equal(tracer.ended[0].ID))
		Expect(tracer.ended[0].Kind).To(Equal(tracing.AccessKindWrite))
		Expect(tracer.ended[0].Where).To(Equal("RegBank"))
		Expect(tracer.ended[0].Address).To(Equal(uint32(5)))
		Expect(tracer.ended[0].Data).To(Equal(uint64(0x77)))
	})

	It("should count the phase transitions of the access", func() {
		masterEP.DriveRequest(bus.Request{Select: true, Address: 5})
		bank.Tick()
		masterEP.DriveRequest(bus.Request{
			Select: true, Enable: true, Address: 5,
		})
		bank.Tick()

		// Idle to Access, then Access to Idle at the completing edge.
		Expect(tracer.ended[0].Phases).To(Equal(2))
	})
})
