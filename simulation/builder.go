package simulation

import (
	"github.com/rs/xid"

	"github.com/sarchlab/regsim/bus"
	"github.com/sarchlab/regsim/datarecording"
	"github.com/sarchlab/regsim/monitoring"
	"github.com/sarchlab/regsim/sim"
	"github.com/sarchlab/regsim/tracing"
)

// Builder builds simulations.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
}

// MakeBuilder creates a new builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:   true,
		recordingOn: true,
	}
}

// WithoutMonitoring disables the monitoring server.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutDataRecording disables the recorded database and the access
// tracer.
func (b Builder) WithoutDataRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the file name of the recorded database, without
// the extension.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:         xid.New().String(),
		components: make(map[string]sim.Component),
		buses:      make(map[string]*bus.Bus),
	}

	s.engine = sim.NewSerialEngine()

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "regsim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.accessTracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterEngine(s.engine)
	}

	return s
}

// StartMonitor launches the monitoring server and returns the port it
// listens on. It returns 0 when monitoring is disabled.
func (s *Simulation) StartMonitor() int {
	if s.monitor == nil {
		return 0
	}

	return s.monitor.StartServer()
}

// ConnectRegBank is a convenience that connects a master endpoint to a
// register bank and registers the bus.
func (s *Simulation) ConnectRegBank(
	name string,
	master *bus.Endpoint,
	device *bus.Endpoint,
) *bus.Bus {
	b := bus.Connect(name, master, device)
	s.RegisterBus(b)

	return b
}
