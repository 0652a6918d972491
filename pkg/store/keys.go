package store

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/solochain/headerstore/types"
)

// Column namespaces of the store. The numeric ids are part of the on-disk
// layout and must not change.
const (
	metaColumn   = "0" // metadata record under a single fixed key
	headerColumn = "1" // header records keyed by block hash
	auxColumn    = "2" // caller-defined auxiliary records
	lookupColumn = "3" // height to canonical hash index
)

// metaKeyName is the fixed key of the metadata record inside the meta column.
const metaKeyName = "meta"

// GenerateKey creates a datastore key from the given fields.
func GenerateKey(fields []string) string {
	return "/" + strings.Join(fields, "/")
}

func getMetaKey() string {
	return GenerateKey([]string{metaColumn, metaKeyName})
}

func getHeaderKey(hash types.Hash) string {
	return GenerateKey([]string{headerColumn, hash.String()})
}

// Aux keys are caller-defined bytes; they are hex-armored so arbitrary bytes
// form a valid datastore key.
func getAuxKey(key []byte) string {
	return GenerateKey([]string{auxColumn, hex.EncodeToString(key)})
}

func getLookupKey(height uint64) string {
	return GenerateKey([]string{lookupColumn, strconv.FormatUint(height, 10)})
}
