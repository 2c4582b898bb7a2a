package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestReadFileAndFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intake.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: intake\n"), 0o644))

	l := New(Options{FileSystem: fstest.MapFS{"forms/intake.yaml": {Data: []byte("id: fs\n")}}})

	data, err := l.Read(context.Background(), KindFile, path)
	require.NoError(t, err)
	require.Equal(t, "id: intake\n", string(data))

	data, err = l.Read(context.Background(), KindFS, "forms/intake.yaml")
	require.NoError(t, err)
	require.Equal(t, "id: fs\n", string(data))

	_, err = New(Options{}).Read(context.Background(), KindFS, "forms/intake.yaml")
	require.Error(t, err)
}

func TestReadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("id: remote\n"))
	}))
	defer server.Close()

	_, err := New(Options{}).Read(context.Background(), KindURL, server.URL)
	require.Error(t, err, "http must be opt-in")

	l := New(Options{AllowHTTP: true})
	data, err := l.Read(context.Background(), KindURL, server.URL+"/intake.yaml")
	require.NoError(t, err)
	require.Equal(t, "id: remote\n", string(data))

	_, err = l.Read(context.Background(), KindURL, server.URL+"/missing")
	require.Error(t, err)
}
