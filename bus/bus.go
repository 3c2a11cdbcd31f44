// Package bus provides a signal-level, single-master handshake bus. A Bus
// holds the current value of every wire; the master endpoint drives the
// request lines, the device endpoint drives the response lines, and each
// side samples what the other drives.
package bus

import (
	"sync"

	"github.com/sarchlab/regsim/sim"
)

// Request carries the master-driven lines of the bus, sampled by the
// device on every rising edge.
type Request struct {
	// Reset is the synchronous, active-high reset line.
	Reset bool

	// Select indicates that the device is addressed by the master.
	Select bool

	// Enable indicates that the master is ready to complete the transfer.
	Enable bool

	// Write selects the direction, 1 for write and 0 for read.
	Write bool

	// Address indexes the device storage. It is always interpreted modulo
	// the device depth, so it can never be out of range.
	Address uint32

	// WriteData is the payload for writes.
	WriteData uint64
}

// Response carries the device-driven lines of the bus.
type Response struct {
	// Ready acknowledges that the transfer will complete or has completed.
	Ready bool

	// ReadData is the read payload. It is only meaningful once a read has
	// completed per the device timing policy, and is zero otherwise.
	ReadData uint64
}

var (
	// HookPosRequestDriven triggers when the master drives new request
	// line values.
	HookPosRequestDriven = &sim.HookPos{Name: "Bus Request Driven"}

	// HookPosResponseDriven triggers when the device drives new response
	// line values.
	HookPosResponseDriven = &sim.HookPos{Name: "Bus Response Driven"}
)

// A Component can own bus endpoints. Driving a line notifies the component
// on the other side of the bus.
type Component interface {
	sim.Named

	NotifyRecv()
}

// An Endpoint is one side of a Bus.
type Endpoint struct {
	name string
	comp Component
	bus  *Bus
}

// NewEndpoint creates an endpoint owned by the given component.
func NewEndpoint(comp Component, name string) *Endpoint {
	return &Endpoint{
		name: name,
		comp: comp,
	}
}

// Name returns the name of the endpoint.
func (e *Endpoint) Name() string {
	return e.name
}

// DriveRequest updates the request lines. Only the master endpoint may
// drive them. Driving unchanged values is a no-op, as wires hold their
// values between drives.
func (e *Endpoint) DriveRequest(req Request) {
	e.mustBeConnected()
	e.bus.driveRequest(e, req)
}

// DriveResponse updates the response lines. Only the device endpoint may
// drive them. Driving unchanged values is a no-op.
func (e *Endpoint) DriveResponse(rsp Response) {
	e.mustBeConnected()
	e.bus.driveResponse(e, rsp)
}

// SampleRequest returns the current value of the request lines.
func (e *Endpoint) SampleRequest() Request {
	e.mustBeConnected()
	return e.bus.sampleRequest()
}

// SampleResponse returns the current value of the response lines.
func (e *Endpoint) SampleResponse() Response {
	e.mustBeConnected()
	return e.bus.sampleResponse()
}

func (e *Endpoint) mustBeConnected() {
	if e.bus == nil {
		panic("endpoint " + e.name + " is not connected to a bus")
	}
}

// A Bus connects exactly one master endpoint and one device endpoint and
// latches the value of every wire between them.
type Bus struct {
	*sim.HookableBase

	lock sync.Mutex
	name string

	master *Endpoint
	device *Endpoint

	req Request
	rsp Response
}

// Name returns the name of the bus.
func (b *Bus) Name() string {
	return b.name
}

// Connect instantiates a bus between a master endpoint and a device
// endpoint.
func Connect(name string, master, device *Endpoint) *Bus {
	b := &Bus{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		master:       master,
		device:       device,
	}

	master.bus = b
	device.bus = b

	return b
}

func (b *Bus) driveRequest(from *Endpoint, req Request) {
	b.lock.Lock()

	if from != b.master {
		b.lock.Unlock()
		panic("only the master endpoint can drive the request lines")
	}

	if req == b.req {
		b.lock.Unlock()
		return
	}

	b.req = req
	b.lock.Unlock()

	b.InvokeHook(sim.HookCtx{
		Domain: b,
		Pos:    HookPosRequestDriven,
		Item:   req,
	})

	if b.device.comp != nil {
		b.device.comp.NotifyRecv()
	}
}

func (b *Bus) driveResponse(from *Endpoint, rsp Response) {
	b.lock.Lock()

	if from != b.device {
		b.lock.Unlock()
		panic("only the device endpoint can drive the response lines")
	}

	if rsp == b.rsp {
		b.lock.Unlock()
		return
	}

	b.rsp = rsp
	b.lock.Unlock()

	b.InvokeHook(sim.HookCtx{
		Domain: b,
		Pos:    HookPosResponseDriven,
		Item:   rsp,
	})

	if b.master.comp != nil {
		b.master.comp.NotifyRecv()
	}
}

func (b *Bus) sampleRequest() Request {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.req
}

func (b *Bus) sampleResponse() Response {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.rsp
}
