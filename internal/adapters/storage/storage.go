// Package storage implements ports.ContentStore on the local filesystem and
// on Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/samirrijal/dronesurvey/internal/pkg/config"
)

// Backend is a ContentStore that holds resources until closed.
type Backend interface {
	Store(ctx context.Context, path string, r io.Reader) (int64, error)
	StoreObject(ctx context.Context, path string, v any) (int64, error)
	OpenRead(ctx context.Context, path string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) (map[string]int64, error)
	Delete(ctx context.Context, path string) error
	Close() error
}

// New opens the backend selected by cfg.
func New(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case "gcs":
		return NewGCS(ctx, cfg.Bucket, cfg.CredentialsFile)
	case "local", "":
		return NewLocal(cfg.Dir)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// Pool a limited number of encoders to keep memory use under control.
var zstdEncoders chan *zstd.Encoder

func init() {
	const nenc = 4
	zstdEncoders = make(chan *zstd.Encoder, nenc)
	for i := 0; i < nenc; i++ {
		ze, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression), zstd.WithEncoderConcurrency(1))
		if err != nil {
			panic(err)
		}
		zstdEncoders <- ze
	}
}

type countingWriter struct {
	io.Writer
	N int64
}

func (w *countingWriter) Write(b []byte) (int, error) {
	n, err := w.Writer.Write(b)
	w.N += int64(n)
	return n, err
}

// encodeObject writes v to w as zstd-compressed msgpack and returns the
// compressed size.
func encodeObject(w io.Writer, v any) (int64, error) {
	cw := &countingWriter{Writer: w}

	zw := <-zstdEncoders
	defer func() { zstdEncoders <- zw }()
	zw.Reset(cw)

	if err := msgpack.NewEncoder(zw).Encode(v); err != nil {
		return 0, err
	} else if err := zw.Close(); err != nil {
		return 0, err
	}
	return cw.N, nil
}

// DecodeObject reads an object written by StoreObject.
func DecodeObject(r io.Reader, v any) error {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return err
	}
	defer zr.Close()

	return msgpack.NewDecoder(zr).Decode(v)
}
