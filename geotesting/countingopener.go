package geotesting

import (
	"github.com/forestrie/go-geodata/storage"
)

// CountingOpener records every open and read made through it.
type CountingOpener struct {
	inner storage.Opener

	Opens     map[string]int
	Failures  map[string]int
	Reads     int
	BytesRead int64
}

// NewCountingOpener wraps inner, a nil inner opens local files.
func NewCountingOpener(inner storage.Opener) *CountingOpener {
	if inner == nil {
		inner = storage.OSOpener{}
	}
	return &CountingOpener{
		inner:    inner,
		Opens:    make(map[string]int),
		Failures: make(map[string]int),
	}
}

func (o *CountingOpener) Open(name string) (storage.File, error) {
	f, err := o.inner.Open(name)
	if err != nil {
		o.Failures[name]++
		return nil, err
	}
	o.Opens[name]++
	return &countingFile{File: f, o: o}, nil
}

// Attempts is the number of opens, failed or not, for name.
func (o *CountingOpener) Attempts(name string) int {
	return o.Opens[name] + o.Failures[name]
}

// ResetCounts zeros the read counters, the open counts are kept.
func (o *CountingOpener) ResetCounts() {
	o.Reads = 0
	o.BytesRead = 0
}

type countingFile struct {
	storage.File
	o *CountingOpener
}

func (f *countingFile) Read(p []byte) (int, error) {
	n, err := f.File.Read(p)
	f.o.Reads++
	f.o.BytesRead += int64(n)
	return n, err
}

func (f *countingFile) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.File.ReadAt(p, off)
	f.o.Reads++
	f.o.BytesRead += int64(n)
	return n, err
}
