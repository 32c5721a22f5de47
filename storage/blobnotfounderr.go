package storage

import (
	"fmt"

	azStorageBlob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const (
	azblobBlobNotFound = "BlobNotFound"
)

func asStorageError(err error) (azStorageBlob.StorageError, bool) {
	serr := &azStorageBlob.StorageError{}
	//nolint
	ierr, ok := err.(*azStorageBlob.InternalError)
	if ierr == nil || !ok {
		return azStorageBlob.StorageError{}, false
	}
	if !ierr.As(&serr) {
		return azStorageBlob.StorageError{}, false
	}
	return *serr, true
}

// IsBlobNotFound reports whether err is the azure sdk BlobNotFound error.
func IsBlobNotFound(err error) bool {
	if err == nil {
		return false
	}
	serr, ok := asStorageError(err)
	return ok && serr.ErrorCode == azblobBlobNotFound
}

// WrapBlobNotFound translates the azure sdk BlobNotFound error to
// ErrSourceUnavailable. Any other error is returned as is, including nil.
func WrapBlobNotFound(err error) error {
	if !IsBlobNotFound(err) {
		return err
	}
	return fmt.Errorf("%s: %w", err.Error(), ErrSourceUnavailable)
}
