package regbank

import (
	"fmt"
	"math/bits"
)

// Storage is a fixed-length array of fixed-width registers. It is
// exclusively owned by a controller; no other entity mutates it. Both the
// address and the data are masked to their configured widths, so there is
// no out-of-range condition to detect.
type Storage struct {
	data     []uint64
	dataMask uint64
	addrMask uint32
}

// NewStorage creates a storage array with the given depth and data width.
// The depth must be a power of two so that the address width divides it
// exactly, and the data width must be between 1 and 64 bits.
func NewStorage(depth int, dataWidth int) *Storage {
	if depth <= 0 || bits.OnesCount(uint(depth)) != 1 {
		panic(fmt.Sprintf("storage depth %d is not a power of two", depth))
	}

	if dataWidth < 1 || dataWidth > 64 {
		panic(fmt.Sprintf("data width %d is out of range", dataWidth))
	}

	s := &Storage{
		data:     make([]uint64, depth),
		addrMask: uint32(depth - 1),
		dataMask: ^uint64(0),
	}

	if dataWidth < 64 {
		s.dataMask = (uint64(1) << dataWidth) - 1
	}

	return s
}

// Depth returns the number of registers in the storage.
func (s *Storage) Depth() int {
	return len(s.data)
}

// AddrWidth returns the number of address bits needed to index the
// storage exactly.
func (s *Storage) AddrWidth() int {
	return bits.TrailingZeros(uint(len(s.data)))
}

// Read returns the value of the register at the given address.
func (s *Storage) Read(addr uint32) uint64 {
	return s.data[addr&s.addrMask]
}

// Write sets the value of the register at the given address.
func (s *Storage) Write(addr uint32, v uint64) {
	s.data[addr&s.addrMask] = v & s.dataMask
}

// ResetAll sets every register to the given value.
func (s *Storage) ResetAll(v uint64) {
	masked := v & s.dataMask
	for i := range s.data {
		s.data[i] = masked
	}
}

// Snapshot returns a copy of the storage contents. The copy keeps the
// storage exclusively owned while letting diagnostics inspect it.
func (s *Storage) Snapshot() []uint64 {
	snapshot := make([]uint64, len(s.data))
	copy(snapshot, s.data)
	return snapshot
}
