package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Download(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snowplan/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("time,depth\n2030-01-01,0.42\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{})
	dest := filepath.Join(t.TempDir(), "series.csv")

	n, err := f.Download(context.Background(), srv.URL, dest)
	require.NoError(t, err)
	assert.Greater(t, n, int64(0))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2030-01-01")
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{MaxRetries: 3, Timeout: 5 * time.Second})
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPFetcher_NotFoundIsFatal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{MaxRetries: 3})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "404 must not be retried")
}

func TestParseFTPURL(t *testing.T) {
	t.Parallel()

	host, path, err := parseFTPURL("ftp://ftp.dwd.de/pub/climate/snd_202601.csv")
	require.NoError(t, err)
	assert.Equal(t, "ftp.dwd.de:21", host)
	assert.Equal(t, "/pub/climate/snd_202601.csv", path)

	_, _, err = parseFTPURL("https://example.com/file.csv")
	assert.Error(t, err)

	_, _, err = parseFTPURL("ftp://ftp.dwd.de")
	assert.Error(t, err)
}
