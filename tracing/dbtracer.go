package tracing

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/regsim/datarecording"
	"github.com/sarchlab/regsim/sim"
)

type accessTableEntry struct {
	ID        string
	Kind      string
	Location  string
	Address   uint32
	Data      uint64
	StartTime float64
	EndTime   float64
	Phases    int
}

// DBTracer stores completed accesses through a DataRecorder so they can
// be inspected after the simulation.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	inflight map[string]Access
}

// AccessTableName is the table DBTracer writes into.
const AccessTableName = "rb_access"

// NewDBTracer creates a DBTracer over the given recorder. The recorder
// is flushed when the tracer terminates.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	backend datarecording.DataRecorder,
) *DBTracer {
	backend.CreateTable(AccessTableName, accessTableEntry{})

	t := &DBTracer{
		timeTeller: timeTeller,
		backend:    backend,
		inflight:   make(map[string]Access),
	}

	atexit.Register(func() { t.Terminate() })

	return t
}

// StartAccess marks the start of an access.
func (t *DBTracer) StartAccess(access Access) {
	t.mu.Lock()
	defer t.mu.Unlock()

	access.StartTime = t.timeTeller.CurrentTime()
	t.inflight[access.ID] = access
}

// EndAccess records the completed access into the database.
func (t *DBTracer) EndAccess(access Access) {
	t.mu.Lock()
	defer t.mu.Unlock()

	access.EndTime = t.timeTeller.CurrentTime()

	original, ok := t.inflight[access.ID]
	if ok {
		access.StartTime = original.StartTime
		delete(t.inflight, access.ID)
	} else {
		access.StartTime = access.EndTime
	}

	t.backend.InsertData(AccessTableName, accessTableEntry{
		ID:        access.ID,
		Kind:      access.Kind,
		Location:  access.Where,
		Address:   access.Address,
		Data:      access.Data,
		StartTime: float64(access.StartTime),
		EndTime:   float64(access.EndTime),
		Phases:    access.Phases,
	})
}

// Terminate drops in-flight accesses and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inflight = make(map[string]Access)
	t.backend.Flush()
}
