package types

import (
	cryptoRand "crypto/rand"
	"time"
)

// GetRandomHeader returns a genesis header with random content, intended for testing.
func GetRandomHeader(chainID string) *Header {
	return &Header{
		BaseHeader: BaseHeader{
			Height:  0,
			Time:    uint64(time.Now().Unix()),
			ChainID: chainID,
		},
		ParentHash:      ZeroHash(),
		DataHash:        GetRandomBytes(HashSize),
		StateRoot:       GetRandomBytes(HashSize),
		ProposerAddress: GetRandomBytes(20),
	}
}

// GetRandomNextHeader returns a valid successor of parent, intended for testing.
func GetRandomNextHeader(parent *Header) *Header {
	h := GetRandomHeader(parent.ChainID())
	h.BaseHeader.Height = parent.Height() + 1
	h.BaseHeader.Time = uint64(parent.Time().Add(time.Second).Unix())
	h.ParentHash = parent.Hash()
	return h
}

// GetRandomBytes returns a byte slice of random bytes of length n.
func GetRandomBytes(n uint) []byte {
	data := make([]byte, n)
	_, _ = cryptoRand.Read(data)
	return data
}
