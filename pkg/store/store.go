package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	ds "github.com/ipfs/go-datastore"

	"github.com/solochain/headerstore/pkg/log"
	"github.com/solochain/headerstore/types"
)

// chainMeta is the persistent metadata record: the single source of truth for
// the best and finalized pointers and the non-finalized backlog counter.
// Absence of the record means the store is empty.
type chainMeta struct {
	// BestHash is the hash of the most recently imported header.
	BestHash types.Hash
	// BestHeight is the height of BestHash.
	BestHeight uint64
	// FinalizedHash is the hash of the most recently finalized header.
	FinalizedHash types.Hash
	// FinalizedHeight is the height of FinalizedHash.
	FinalizedHeight uint64
	// GenesisHash is the hash of the first ever imported header. Set exactly
	// once, at the first import.
	GenesisHash types.Hash
	// NonFinalizedBlocks counts imported but not yet finalized headers.
	NonFinalizedBlocks uint64
}

// DefaultStore persists the canonical header chain of a client that follows
// exactly one fork.
//
// Every mutating call re-derives its state from the persisted metadata record
// and commits all of its writes in one atomic batch, so operations are safely
// restartable after a crash between calls. A single-writer lock guards the
// read-validate-write sequence of each mutation, since the batch alone only
// protects the write step.
type DefaultStore struct {
	mu                    sync.Mutex
	db                    ds.Batching
	maxNonFinalizedBlocks uint64
	logger                log.Logger
}

var _ Storage = &DefaultStore{}

// Option configures a DefaultStore.
type Option func(*DefaultStore)

// WithLogger makes the store log imports, finalizations and pruning.
func WithLogger(logger log.Logger) Option {
	return func(s *DefaultStore) {
		s.logger = logger
	}
}

// New returns a store over the given datastore that allows at most
// maxNonFinalizedBlocks imported-but-not-finalized headers.
func New(db ds.Batching, maxNonFinalizedBlocks uint64, opts ...Option) *DefaultStore {
	s := &DefaultStore{
		db:                    db,
		maxNonFinalizedBlocks: maxNonFinalizedBlocks,
		logger:                log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close safely closes underlying data storage, to ensure that data is
// actually saved.
func (s *DefaultStore) Close() error {
	return s.db.Close()
}

// fetchMeta loads the metadata record. It returns nil without error when the
// record does not exist yet.
func (s *DefaultStore) fetchMeta(ctx context.Context) (*chainMeta, error) {
	blob, err := s.db.Get(ctx, ds.NewKey(getMetaKey()))
	if errors.Is(err, ds.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load chain metadata: %v", ErrBackend, err)
	}
	meta := new(chainMeta)
	if err := cbor.Unmarshal(blob, meta); err != nil {
		return nil, fmt.Errorf("%w: failed to decode chain metadata: %v", ErrDataDecode, err)
	}
	return meta, nil
}

// storeMeta writes the metadata record as a standalone atomic operation,
// outside of any import or finalization batch.
func (s *DefaultStore) storeMeta(ctx context.Context, meta *chainMeta) error {
	blob, err := cbor.Marshal(meta)
	if err != nil {
		return fmt.Errorf("%w: failed to encode chain metadata: %v", ErrBackend, err)
	}
	if err := s.db.Put(ctx, ds.NewKey(getMetaKey()), blob); err != nil {
		return fmt.Errorf("%w: failed to store chain metadata: %v", ErrBackend, err)
	}
	return nil
}

func txStoreMeta(ctx context.Context, batch ds.Batch, meta *chainMeta) error {
	blob, err := cbor.Marshal(meta)
	if err != nil {
		return fmt.Errorf("%w: failed to encode chain metadata: %v", ErrBackend, err)
	}
	if err := batch.Put(ctx, ds.NewKey(getMetaKey()), blob); err != nil {
		return fmt.Errorf("%w: failed to put chain metadata in batch: %v", ErrBackend, err)
	}
	return nil
}

func txStoreHeader(ctx context.Context, batch ds.Batch, header *types.Header) error {
	blob, err := header.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: failed to encode header: %v", ErrBackend, err)
	}
	if err := batch.Put(ctx, ds.NewKey(getHeaderKey(header.Hash())), blob); err != nil {
		return fmt.Errorf("%w: failed to put header in batch: %v", ErrBackend, err)
	}
	return nil
}

func txDeleteHeader(ctx context.Context, batch ds.Batch, hash types.Hash) error {
	if err := batch.Delete(ctx, ds.NewKey(getHeaderKey(hash))); err != nil {
		return fmt.Errorf("%w: failed to delete header in batch: %v", ErrBackend, err)
	}
	return nil
}

// Header returns the header referenced by id, or nil if it is not stored.
// A by-height reference resolves through the lookup column first.
func (s *DefaultStore) Header(ctx context.Context, id types.BlockID) (*types.Header, error) {
	hash := id.Hash()
	if id.ByHeight() {
		var err error
		hash, err = s.Hash(ctx, id.Height())
		if err != nil {
			return nil, err
		}
		if hash == nil {
			return nil, nil
		}
	}

	blob, err := s.db.Get(ctx, ds.NewKey(getHeaderKey(hash)))
	if errors.Is(err, ds.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load header %s: %v", ErrBackend, hash, err)
	}

	header := new(types.Header)
	if err := header.UnmarshalBinary(blob); err != nil {
		return nil, fmt.Errorf("%w: failed to decode header %s: %v", ErrDataDecode, hash, err)
	}
	return header, nil
}

// Info returns a summary of the chain. A zero-valued summary is returned when
// the metadata record is absent or unreadable; callers must treat a zero best
// or genesis hash as "chain not yet initialized".
func (s *DefaultStore) Info(ctx context.Context) BlockchainInfo {
	meta, err := s.fetchMeta(ctx)
	if err != nil || meta == nil {
		return BlockchainInfo{}
	}
	return BlockchainInfo{
		BestHash:        meta.BestHash,
		BestHeight:      meta.BestHeight,
		GenesisHash:     meta.GenesisHash,
		FinalizedHash:   meta.FinalizedHash,
		FinalizedHeight: meta.FinalizedHeight,
		NumLeaves:       0,
	}
}

// Status reports whether the block referenced by id is in the chain.
func (s *DefaultStore) Status(ctx context.Context, id types.BlockID) (BlockStatus, error) {
	header, err := s.Header(ctx, id)
	if err != nil {
		return StatusUnknown, err
	}
	if header == nil {
		return StatusUnknown, nil
	}
	return StatusInChain, nil
}

// Number returns the height of the block with the given hash.
func (s *DefaultStore) Number(ctx context.Context, hash types.Hash) (uint64, bool, error) {
	header, err := s.Header(ctx, types.BlockIDFromHash(hash))
	if err != nil || header == nil {
		return 0, false, err
	}
	return header.Height(), true, nil
}

// Hash returns the canonical hash at the given height, or nil when the
// height is not indexed in the lookup column.
func (s *DefaultStore) Hash(ctx context.Context, height uint64) (types.Hash, error) {
	blob, err := s.db.Get(ctx, ds.NewKey(getLookupKey(height)))
	if errors.Is(err, ds.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to look up height %d: %v", ErrBackend, height, err)
	}
	return types.Hash(blob), nil
}

// ImportHeader validates and commits a new header as the best head of the
// chain. Importing an already stored header is a no-op. The very first import
// sets the genesis hash; every later import must extend the current best by
// exactly one height.
//
// auxOps carries side-channel writes intended to commit in the same batch as
// the header. They are not appended to the batch yet; callers relying on
// atomicity with the header write must use InsertAux separately for now.
func (s *DefaultStore) ImportHeader(ctx context.Context, header *types.Header, state types.NewBlockState, auxOps []AuxOp) error {
	if !state.IsBest() {
		panic("import state must be best: the store follows a single fork")
	}
	_ = auxOps

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.fetchMeta(ctx)
	if err != nil {
		return err
	}
	if meta == nil {
		meta = new(chainMeta)
	}

	if meta.NonFinalizedBlocks >= s.maxNonFinalizedBlocks {
		return fmt.Errorf("%w: cannot import any more blocks before finalizing previous blocks", ErrBackend)
	}

	hash := header.Hash()
	existing, err := s.Header(ctx, types.BlockIDFromHash(hash))
	if err != nil {
		return err
	}
	if existing != nil {
		// already imported
		return nil
	}

	firstImport := meta.BestHash.IsZero()
	if firstImport {
		meta.GenesisHash = hash
	} else {
		best, err := s.Header(ctx, types.BlockIDFromHash(meta.BestHash))
		if err != nil {
			return err
		}
		if best == nil {
			return fmt.Errorf("%w: could not find parent of importing block", ErrUnknownBlock)
		}
		if !header.ParentHash.Equal(best.Hash()) || header.Height() <= best.Height() {
			return ErrNotInFinalizedChain
		}
		if header.Height() != meta.BestHeight+1 {
			return fmt.Errorf("%w: tried to import non sequential block, expected height %d, got %d",
				ErrNonSequentialFinalization, meta.BestHeight+1, header.Height())
		}
	}

	meta.NonFinalizedBlocks++
	meta.BestHash = hash
	meta.BestHeight = header.Height()

	batch, err := s.db.Batch(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to create a new batch: %v", ErrBackend, err)
	}
	if err := txStoreMeta(ctx, batch, meta); err != nil {
		return err
	}
	if err := txStoreHeader(ctx, batch, header); err != nil {
		return err
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit batch: %v", ErrBackend, err)
	}

	s.logger.Debug("imported header",
		"height", header.Height(),
		"hash", hash.String(),
		"non_finalized", meta.NonFinalizedBlocks)
	return nil
}

// SetHead reassigns the best pointer to an existing block. Moving the head
// without reorganization support is unsafe, so this store does not allow it.
func (s *DefaultStore) SetHead(ctx context.Context, id types.BlockID) error {
	panic("SetHead is not supported: the store follows a single fork")
}

// FinalizeHeader marks the referenced header as finalized. Finalization
// advances exactly one step along the imported chain: the first finalized
// block must be genesis, every later one a child of the last finalized block.
// The previously finalized header is pruned in the same batch.
func (s *DefaultStore) FinalizeHeader(ctx context.Context, id types.BlockID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	header, err := s.Header(ctx, id)
	if err != nil {
		return err
	}
	if header == nil {
		return fmt.Errorf("%w: could not find block header to finalize", ErrUnknownBlock)
	}

	meta, err := s.fetchMeta(ctx)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("%w: chain metadata is not initialized", ErrBackend)
	}

	hash := header.Hash()
	firstFinalization := meta.FinalizedHash.IsZero()
	if firstFinalization {
		if !hash.Equal(meta.GenesisHash) {
			return fmt.Errorf("%w: first finalized block must be the genesis block", ErrNonSequentialFinalization)
		}
	} else if !header.ParentHash.Equal(meta.FinalizedHash) {
		return fmt.Errorf("%w: finalized block must be a child of the last finalized block", ErrNonSequentialFinalization)
	}

	meta.NonFinalizedBlocks--
	meta.FinalizedHash = hash
	meta.FinalizedHeight = header.Height()

	batch, err := s.db.Batch(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to create a new batch: %v", ErrBackend, err)
	}
	if err := txStoreMeta(ctx, batch, meta); err != nil {
		return err
	}
	if !firstFinalization {
		// the header finalized before this one is superseded: only the
		// latest finalized header is needed to verify the next step
		if err := txDeleteHeader(ctx, batch, header.ParentHash); err != nil {
			return err
		}
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit batch: %v", ErrBackend, err)
	}

	s.logger.Debug("finalized header",
		"height", header.Height(),
		"hash", hash.String(),
		"non_finalized", meta.NonFinalizedBlocks)
	return nil
}

// LastFinalized returns the hash of the most recently finalized header. It
// fails while nothing has been finalized yet.
func (s *DefaultStore) LastFinalized(ctx context.Context) (types.Hash, error) {
	meta, err := s.fetchMeta(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil || meta.FinalizedHash.IsZero() {
		return nil, fmt.Errorf("%w: no finalized block yet", ErrBackend)
	}
	return meta.FinalizedHash, nil
}

// InsertAux applies the given puts and deletes to the auxiliary column as one
// atomic batch.
func (s *DefaultStore) InsertAux(ctx context.Context, inserts []AuxOp, deletes [][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, err := s.db.Batch(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to create a new batch: %v", ErrBackend, err)
	}
	for _, op := range inserts {
		if op.Value == nil {
			if err := batch.Delete(ctx, ds.NewKey(getAuxKey(op.Key))); err != nil {
				return fmt.Errorf("%w: failed to delete aux value in batch: %v", ErrBackend, err)
			}
			continue
		}
		if err := batch.Put(ctx, ds.NewKey(getAuxKey(op.Key)), op.Value); err != nil {
			return fmt.Errorf("%w: failed to put aux value in batch: %v", ErrBackend, err)
		}
	}
	for _, key := range deletes {
		if err := batch.Delete(ctx, ds.NewKey(getAuxKey(key))); err != nil {
			return fmt.Errorf("%w: failed to delete aux value in batch: %v", ErrBackend, err)
		}
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit batch: %v", ErrBackend, err)
	}
	return nil
}

// GetAux returns the value stored under key, or nil if it is absent.
func (s *DefaultStore) GetAux(ctx context.Context, key []byte) ([]byte, error) {
	value, err := s.db.Get(ctx, ds.NewKey(getAuxKey(key)))
	if errors.Is(err, ds.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load aux value: %v", ErrBackend, err)
	}
	return value, nil
}

// HeaderMetadata derives the metadata view by fetching and decoding the full
// header; no caching is performed.
func (s *DefaultStore) HeaderMetadata(ctx context.Context, hash types.Hash) (types.CachedHeaderMetadata, error) {
	header, err := s.Header(ctx, types.BlockIDFromHash(hash))
	if err != nil {
		return types.CachedHeaderMetadata{}, err
	}
	if header == nil {
		return types.CachedHeaderMetadata{}, fmt.Errorf("%w: header not found in db: %s", ErrUnknownBlock, hash)
	}
	return types.HeaderMetadataFromHeader(header), nil
}

// InsertHeaderMetadata is a cache extension point that this store does not
// implement; header metadata is always derived from stored headers.
func (s *DefaultStore) InsertHeaderMetadata(hash types.Hash, md types.CachedHeaderMetadata) {
	panic("InsertHeaderMetadata is not supported: header metadata is derived from stored headers")
}

// RemoveHeaderMetadata is a cache extension point that this store does not
// implement; header metadata is always derived from stored headers.
func (s *DefaultStore) RemoveHeaderMetadata(hash types.Hash) {
	panic("RemoveHeaderMetadata is not supported: header metadata is derived from stored headers")
}
