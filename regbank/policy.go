package regbank

// Policy selects the phase sequence and the ready/commit timing of the
// controller. All policies implement the same storage semantics; they
// differ only in how many cycles a transaction takes and when ready and
// readData are observable.
type Policy int

const (
	// TwoPhaseRegistered services a transaction with the Idle and Access
	// phases. The next phase is decided from the request lines sampled
	// half a cycle before the rising edge, and ready and readData are
	// registered outputs that are valid while the controller is in
	// Access.
	TwoPhaseRegistered Policy = iota

	// ThreePhaseEarlyReady services a transaction with the Idle, Setup,
	// and Access phases. Ready is asserted one cycle early, during Setup,
	// and the storage commit or read latch also happens during Setup so
	// that readData is stable by the time Access is reached.
	ThreePhaseEarlyReady

	// CombinationalHold services a transaction with the Idle and Access
	// phases. The controller enters Access on select alone and holds
	// there until enable completes the transfer. Ready is a combinational
	// function of the current phase, so it asserts without a registration
	// delay.
	CombinationalHold
)

func (p Policy) String() string {
	switch p {
	case TwoPhaseRegistered:
		return "TwoPhaseRegistered"
	case ThreePhaseEarlyReady:
		return "ThreePhaseEarlyReady"
	case CombinationalHold:
		return "CombinationalHold"
	default:
		return "Invalid"
	}
}
