package types

import (
	"github.com/fxamacker/cbor/v2"
)

// Headers are encoded canonically so that equal headers always produce
// identical bytes and header hashes stay stable across round trips.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
}

// headerAlias strips Header's methods so the codec encodes the plain struct
// instead of re-entering MarshalBinary/UnmarshalBinary.
type headerAlias Header

// MarshalBinary encodes Header into binary form and returns it.
func (h *Header) MarshalBinary() ([]byte, error) {
	return encMode.Marshal((*headerAlias)(h))
}

// UnmarshalBinary decodes binary form of Header into object.
func (h *Header) UnmarshalBinary(data []byte) error {
	return decMode.Unmarshal(data, (*headerAlias)(h))
}
