package types

// CachedHeaderMetadata is a lightweight view of a header, used for ancestry
// queries without decoding the full header.
type CachedHeaderMetadata struct {
	// Hash of the header.
	Hash Hash
	// Height of the header.
	Height uint64
	// Parent is the hash of the preceding header.
	Parent Hash
}

// HeaderMetadataFromHeader derives the metadata view from a full header.
func HeaderMetadataFromHeader(h *Header) CachedHeaderMetadata {
	return CachedHeaderMetadata{
		Hash:   h.Hash(),
		Height: h.Height(),
		Parent: h.ParentHash,
	}
}
