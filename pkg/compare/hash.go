package compare

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/downsort/pkg/storage"
)

// HashComparator compares files by size, then by SHA-256 digest
type HashComparator struct {
	bufferSize int
	bufferPool *sync.Pool
}

// NewHashComparator creates a new hash-based comparator
func NewHashComparator(bufferSize int) *HashComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &HashComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Compare compares two files using their sizes and SHA-256 hashes
func (c *HashComparator) Compare(ctx context.Context, backend storage.Backend, pathA, pathB string) (*Comparison, error) {
	infoA, err := backend.Stat(ctx, pathA)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", pathA, err)
	}
	infoB, err := backend.Stat(ctx, pathB)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", pathB, err)
	}

	cmp := &Comparison{PathA: pathA, PathB: pathB}

	if infoA.Size != infoB.Size {
		cmp.Result = Different
		cmp.Reason = "file sizes differ"
		return cmp, nil
	}

	hashA, err := c.Hash(ctx, backend, pathA)
	if err != nil {
		return nil, err
	}
	hashB, err := c.Hash(ctx, backend, pathB)
	if err != nil {
		return nil, err
	}

	if bytes.Equal(hashA, hashB) {
		cmp.Result = Same
		cmp.Reason = "identical SHA-256"
	} else {
		cmp.Result = Different
		cmp.Reason = "SHA-256 differs"
	}
	return cmp, nil
}

// Hash computes the SHA-256 digest of a file
func (c *HashComparator) Hash(ctx context.Context, backend storage.Backend, path string) ([]byte, error) {
	reader, err := backend.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer reader.Close()

	bufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(bufPtr)

	h := sha256.New()
	if _, err := io.CopyBuffer(h, &ctxReader{ctx: ctx, r: reader}, *bufPtr); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return "sha256"
}

// ctxReader stops reading once the context is cancelled
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
