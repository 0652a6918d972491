package types

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSerializationRoundTrip(t *testing.T) {
	t.Parallel()

	h := GetRandomHeader("TestHeaderSerializationRoundTrip")
	blob, err := h.MarshalBinary()
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	var decoded Header
	require.NoError(t, decoded.UnmarshalBinary(blob))
	assert.Equal(t, *h, decoded)
	assert.Equal(t, h.Hash(), decoded.Hash())
}

// The codec must encode the header as a plain CBOR map of its fields, not
// hand encoding back to MarshalBinary, which would never terminate.
func TestHeaderEncodesAsPlainStruct(t *testing.T) {
	t.Parallel()

	h := GetRandomHeader("TestHeaderEncodesAsPlainStruct")
	blob, err := h.MarshalBinary()
	require.NoError(t, err)

	var fields map[string]cbor.RawMessage
	require.NoError(t, cbor.Unmarshal(blob, &fields))
	assert.Contains(t, fields, "ParentHash")
	assert.Contains(t, fields, "Height")
	assert.Contains(t, fields, "StateRoot")
}

func TestHeaderHashDeterministic(t *testing.T) {
	t.Parallel()

	h := GetRandomHeader("TestHeaderHashDeterministic")
	first := h.Hash()
	second := h.Hash()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	// changing any field must change the hash
	h.BaseHeader.Height++
	assert.NotEqual(t, first, h.Hash())
}

func TestHeaderUnmarshalMalformed(t *testing.T) {
	t.Parallel()

	var h Header
	err := h.UnmarshalBinary([]byte("malformed data"))
	require.Error(t, err)
}

func TestHashIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, Hash(nil).IsZero())
	assert.True(t, ZeroHash().IsZero())

	h := GetRandomHeader("TestHashIsZero")
	assert.False(t, h.Hash().IsZero())
}

func TestBlockID(t *testing.T) {
	t.Parallel()

	h := GetRandomHeader("TestBlockID")

	byHash := BlockIDFromHash(h.Hash())
	assert.False(t, byHash.ByHeight())
	assert.Equal(t, h.Hash(), byHash.Hash())

	byHeight := BlockIDFromHeight(42)
	assert.True(t, byHeight.ByHeight())
	assert.Equal(t, uint64(42), byHeight.Height())
	assert.Equal(t, "#42", byHeight.String())
}

func TestNewBlockState(t *testing.T) {
	t.Parallel()

	assert.True(t, NewBlockStateBest.IsBest())
	assert.False(t, NewBlockStateNormal.IsBest())
	assert.False(t, NewBlockStateFinal.IsBest())
}

func TestHeaderMetadataFromHeader(t *testing.T) {
	t.Parallel()

	parent := GetRandomHeader("TestHeaderMetadataFromHeader")
	h := GetRandomNextHeader(parent)

	md := HeaderMetadataFromHeader(h)
	assert.Equal(t, h.Hash(), md.Hash)
	assert.Equal(t, h.Height(), md.Height)
	assert.Equal(t, parent.Hash(), md.Parent)
}

func TestValidateBasic(t *testing.T) {
	t.Parallel()

	h := GetRandomHeader("TestValidateBasic")
	require.NoError(t, h.ValidateBasic())

	h.BaseHeader.ChainID = ""
	require.Error(t, h.ValidateBasic())
}
