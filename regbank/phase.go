package regbank

// Phase is a state of the transaction state machine.
type Phase int

// The phases a transaction can be in. Not every policy uses every phase.
const (
	PhaseIdle Phase = iota
	PhaseSetup
	PhaseAccess
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseSetup:
		return "Setup"
	case PhaseAccess:
		return "Access"
	default:
		return "Invalid"
	}
}
