package geotesting

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/forestrie/go-geodata/storage"
)

// BlobStore is an in memory stand in for an azure blob container, it satisfies
// storage.BlobReader.
type BlobStore struct {
	Blobs map[string][]byte
	Reads []string
}

func NewBlobStore() *BlobStore {
	return &BlobStore{Blobs: map[string][]byte{}}
}

// Put stores data under the blob path formed by joining elem.
func (s *BlobStore) Put(data []byte, elem ...string) {
	s.Blobs[path.Join(elem...)] = data
}

func (s *BlobStore) Reader(
	ctx context.Context, identity string, opts ...azblob.Option,
) (*azblob.ReaderResponse, error) {
	s.Reads = append(s.Reads, identity)
	data, ok := s.Blobs[identity]
	if !ok {
		return nil, fmt.Errorf("%s: %w", identity, storage.ErrSourceUnavailable)
	}
	return &azblob.ReaderResponse{Reader: io.NopCloser(bytes.NewReader(data))}, nil
}
