package types

// NewBlockState describes the chain position a caller assigns to a newly
// imported header.
type NewBlockState int

const (
	// NewBlockStateNormal marks a header imported on a non-best fork.
	NewBlockStateNormal NewBlockState = iota
	// NewBlockStateBest marks a header as the new best head of the chain.
	NewBlockStateBest
	// NewBlockStateFinal marks a header imported as already finalized.
	NewBlockStateFinal
)

// IsBest reports whether the state declares the header as the new best head.
func (s NewBlockState) IsBest() bool {
	return s == NewBlockStateBest
}

func (s NewBlockState) String() string {
	switch s {
	case NewBlockStateNormal:
		return "normal"
	case NewBlockStateBest:
		return "best"
	case NewBlockStateFinal:
		return "final"
	default:
		return "unknown"
	}
}
