// Package storage provides access to the files backing the geodata stores
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// File is an open geodata file. Stores keep the file open between lookups and
// read it both sequentially and at absolute offsets.
type File interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
}

type Opener interface {
	Open(string) (File, error)
}

// OSOpener opens files on the local filesystem.
type OSOpener struct{}

func (OSOpener) Open(name string) (File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, WrapNotExist(err)
	}
	return f, nil
}

// WrapNotExist translates missing and permission failures to
// ErrSourceUnavailable. Other errors are returned as is, including nil.
func WrapNotExist(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%s: %w", err.Error(), ErrSourceUnavailable)
	}
	return err
}

// ReadFull reads exactly len(buf) bytes at off. A short read is ErrTruncated.
func ReadFull(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: read %d of %d bytes at offset %d", ErrTruncated, n, len(buf), off)
	}
	return err
}

// ReadNext reads exactly len(buf) bytes from the current position of r.
func ReadNext(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: read %d of %d bytes", ErrTruncated, n, len(buf))
	}
	return err
}
