// Package tracing collects register bank transactions as they complete
// and forwards them to tracers.
package tracing

import "github.com/sarchlab/regsim/sim"

// An Access is one traced register bank transaction.
type Access struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Where     string         `json:"where"`
	Address   uint32         `json:"address"`
	Data      uint64         `json:"data"`
	StartTime sim.VTimeInSec `json:"start_time"`
	EndTime   sim.VTimeInSec `json:"end_time"`

	// Phases is the number of phase transitions the controller went
	// through from the start of the access to its completion.
	Phases int `json:"phases"`
}

// AccessKind values.
const (
	AccessKindRead  = "read"
	AccessKindWrite = "write"
)

// An AccessFilter selects interesting accesses. If this function returns
// true, the access is considered useful.
type AccessFilter func(a Access) bool

// A Tracer can collect register bank accesses.
type Tracer interface {
	StartAccess(access Access)
	EndAccess(access Access)
}
