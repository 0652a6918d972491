package store

import "errors"

// Typed failure kinds surfaced by the store. Callers match them with
// errors.Is; message-carrying kinds wrap additional context.
var (
	// ErrBackend indicates an underlying datastore failure or an
	// inconsistent store state.
	ErrBackend = errors.New("backend error")

	// ErrDataDecode indicates stored bytes that could not be decoded.
	ErrDataDecode = errors.New("data decode error")

	// ErrUnknownBlock indicates a referenced block was absent when its
	// presence was required.
	ErrUnknownBlock = errors.New("unknown block")

	// ErrNotInFinalizedChain indicates a header that does not chain from
	// the current best block.
	ErrNotInFinalizedChain = errors.New("block not in finalized chain")

	// ErrNonSequentialFinalization indicates a height or parent
	// discontinuity during import or finalization.
	ErrNonSequentialFinalization = errors.New("non sequential finalization")
)
