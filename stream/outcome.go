package stream

// Outcome is the status of every stream operation.
type Outcome int

const (
	Ok Outcome = iota
	EndOfData
	WouldBlock
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case EndOfData:
		return "end-of-data"
	case WouldBlock:
		return "would-block"
	default:
		return "invalid-outcome"
	}
}

// Valid reports whether o is one of the three defined outcomes.
// Engines use it to detect transports that break the contract.
func (o Outcome) Valid() bool {
	return o >= Ok && o <= WouldBlock
}
