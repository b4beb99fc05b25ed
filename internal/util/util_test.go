package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()
	ctx := context.Background()

	b, err := GetBytes(ctx, srv.URL+"/ok", 10)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(b))

	_, err = GetBytes(ctx, srv.URL+"/ok", 5)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = GetBytes(ctx, srv.URL+"/missing", 0)
	assert.ErrorContains(t, err, "unexpected status 404")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = GetBytes(cancelled, srv.URL+"/ok", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublicOnlyFetcherRefusesLocalHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret"))
	}))
	defer srv.Close()

	_, err := NewFetcher(true).GetBytes(context.Background(), srv.URL, 0)
	assert.ErrorIs(t, err, ErrForbiddenAddress)

	b, err := NewFetcher(false).GetBytes(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	assert.Equal(t, "secret", string(b))
}

func TestIsPublicAddr(t *testing.T) {
	for addr, want := range map[string]bool{
		"8.8.8.8":         true,
		"2606:4700::1111": true,
		"127.0.0.1":       false,
		"10.1.2.3":        false,
		"172.16.0.9":      false,
		"192.168.1.1":     false,
		"169.254.169.254": false,
		"100.64.0.1":      false,
		"0.0.0.0":         false,
		"::1":             false,
		"fe80::1":         false,
		"fd00::1":         false,
		"::ffff:10.0.0.1": false,
		"224.0.0.1":       false,
	} {
		assert.Equal(t, want, IsPublicAddr(netip.MustParseAddr(addr)), addr)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "design.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
