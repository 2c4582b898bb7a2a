// Package loader reads form definition documents from disk, an fs.FS or an
// HTTP(S) URL.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Kind mirrors schema.SourceKind without importing it.
type Kind string

const (
	KindFile Kind = "file"
	KindFS   Kind = "fs"
	KindURL  Kind = "url"
)

// Options configures a Loader.
type Options struct {
	FileSystem     fs.FS
	HTTPClient     *http.Client
	AllowHTTP      bool
	RequestTimeout time.Duration
}

// Loader fetches raw document bytes.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// New constructs a Loader. HTTP loading is enabled when a client is supplied
// or AllowHTTP is set.
func New(options Options) *Loader {
	var client *http.Client
	switch {
	case options.HTTPClient != nil:
		client = options.HTTPClient
	case options.AllowHTTP:
		client = &http.Client{}
	}
	return &Loader{fs: options.FileSystem, http: client, timeout: options.RequestTimeout}
}

// Read returns the bytes at location for the given kind.
func (l *Loader) Read(ctx context.Context, kind Kind, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New("loader: location is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case KindFile:
		abs, err := filepath.Abs(location)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(abs)
	case KindFS:
		if l.fs == nil {
			return nil, errors.New("loader: filesystem is not configured")
		}
		return fs.ReadFile(l.fs, location)
	case KindURL:
		return l.readHTTP(ctx, location)
	default:
		return nil, fmt.Errorf("loader: unsupported source kind %q", kind)
	}
}

func (l *Loader) readHTTP(ctx context.Context, url string) ([]byte, error) {
	if l.http == nil {
		return nil, errors.New("loader: http support disabled")
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("loader: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
