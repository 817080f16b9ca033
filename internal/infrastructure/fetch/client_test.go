package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/pkg/common"
)

const toast = "( Toast ) 1 , 0 : 1 , 0 : 3 <start> ( 2 each bread slices ) <stop> <start> # 1 toast the bread # <stop> <tagOpen> <tagClose>"

func newClient(maxBytes int64) *Client {
	return NewClient(config.FetchConfig{Timeout: 2 * time.Second, MaxBytes: maxBytes, Retries: 1, AllowPrivateHosts: true})
}

func TestFetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(toast))
	}))
	defer srv.Close()

	text, err := newClient(0).Fetch(context.Background(), srv.URL+"/toast.recipe")
	require.NoError(t, err)
	assert.Equal(t, toast, text)
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newClient(0).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetchFailed)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(toast))
	}))
	defer srv.Close()

	text, err := newClient(0).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, toast, text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	_, err := newClient(10).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, common.ErrFetchFailed)
}

func TestFetchInvalidURL(t *testing.T) {
	for _, u := range []string{"", "ftp://example.com/x", "not a url", "http://"} {
		_, err := newClient(0).Fetch(context.Background(), u)
		assert.ErrorIs(t, err, common.ErrInvalidRequest, u)
	}
}

func TestFetchRejectsPrivateHosts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(toast))
	}))
	defer srv.Close()

	c := NewClient(config.FetchConfig{Timeout: 2 * time.Second, Retries: 1})
	for _, u := range []string{
		srv.URL,
		"http://localhost:8080/toast.recipe",
		"http://api.localhost/toast.recipe",
		"http://10.1.2.3/toast.recipe",
		"http://192.168.0.10/toast.recipe",
		"http://169.254.169.254/latest/meta-data",
		"http://[::1]:8080/toast.recipe",
		"http://0.0.0.0/toast.recipe",
	} {
		_, err := c.Fetch(context.Background(), u)
		assert.ErrorIs(t, err, common.ErrInvalidRequest, u)
		assert.ErrorIs(t, err, errBlockedHost, u)
	}
	assert.Zero(t, calls.Load())
}

func TestGuardDial(t *testing.T) {
	tests := []struct {
		address string
		blocked bool
	}{
		{"127.0.0.1:80", true},
		{"10.0.0.1:443", true},
		{"172.16.5.4:80", true},
		{"[::1]:80", true},
		{"[fe80::1]:80", true},
		{"93.184.216.34:80", false},
		{"[2606:4700::1111]:443", false},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := guardDial("tcp", tt.address, nil)
			if tt.blocked {
				assert.ErrorIs(t, err, errBlockedHost)
				return
			}
			assert.NoError(t, err)
		})
	}
}
