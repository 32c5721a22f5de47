package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/datatrails/go-datatrails-common/azblob"
)

// BlobReader is the subset of the azblob store needed to fetch geodata blobs.
type BlobReader interface {
	Reader(
		ctx context.Context,
		identity string,
		opts ...azblob.Option,
	) (*azblob.ReaderResponse, error)
}

// BlobOpener serves geodata files from a blob container. The data root of a
// store configured with a BlobOpener is a blob path prefix rather than a
// directory.
//
// Each Open fetches the whole blob and serves it from memory, the stores only
// re-open a source when it changes, so each blob is fetched once per switch.
type BlobOpener struct {
	ctx   context.Context
	store BlobReader
	opts  []azblob.Option
}

func NewBlobOpener(ctx context.Context, store BlobReader, opts ...azblob.Option) *BlobOpener {
	return &BlobOpener{ctx: ctx, store: store, opts: opts}
}

func (o *BlobOpener) Open(name string) (File, error) {
	blobPath := strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "/")

	rr, err := o.store.Reader(o.ctx, blobPath, o.opts...)
	if err != nil {
		return nil, WrapBlobNotFound(err)
	}
	defer rr.Reader.Close()

	data, err := io.ReadAll(rr.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, blobPath, err)
	}
	return &memFile{Reader: bytes.NewReader(data)}, nil
}

type memFile struct {
	*bytes.Reader
}

func (f *memFile) Close() error { return nil }
