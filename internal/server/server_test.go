package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(handler, Options{
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 2 * time.Second,
	}, logger)
}

func startServer(t *testing.T, srv *Server) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("server did not start listening")
	}
	return cancel, done
}

func TestServer_ServesUntilCancelled(t *testing.T) {
	srv := testServer(t)
	cancel, done := startServer(t, srv)

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_ShutdownOrderIsLIFO(t *testing.T) {
	srv := testServer(t)

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("postgres", record("postgres"))
	srv.OnShutdown("redis", record("redis"))

	cancel, done := startServer(t, srv)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []string{"redis", "postgres"}, order)
}

func TestServer_ShutdownErrorsAreReturned(t *testing.T) {
	srv := testServer(t)
	boom := errors.New("boom")
	called := false
	srv.OnShutdown("first", func(context.Context) error { called = true; return nil })
	srv.OnShutdown("broken", func(context.Context) error { return boom })

	cancel, done := startServer(t, srv)
	cancel()
	err := <-done

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, called, "remaining components still shut down after an error")
}

func TestServer_AddrBeforeRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(http.NotFoundHandler(), Options{Port: 9090}, logger)
	assert.Equal(t, ":9090", srv.Addr())
}
