package server

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPServer_Defaults(t *testing.T) {
	s := NewHTTPServer().(*httpServer)

	if s.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", s.Addr())
	}

	if s.srv.ReadTimeout != defaultReadTimeout || s.shutdownTimeout != defaultShutdownTimeout {
		t.Errorf("timeouts = %v/%v, want defaults", s.srv.ReadTimeout, s.shutdownTimeout)
	}
}

func TestNewHTTPServer_Options(t *testing.T) {
	h := http.NewServeMux()

	s := NewHTTPServer(
		WithAddr("127.0.0.1", 9090),
		WithTimeout(time.Second, 0, 3*time.Second),
		WithShutdownTimeout(0),
		WithHandler(h),
	).(*httpServer)

	if s.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9090", s.Addr())
	}

	if s.srv.ReadTimeout != time.Second || s.srv.IdleTimeout != 3*time.Second {
		t.Errorf("read/idle = %v/%v, want 1s/3s", s.srv.ReadTimeout, s.srv.IdleTimeout)
	}

	if s.srv.WriteTimeout != defaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, zero must keep the default", s.srv.WriteTimeout)
	}

	if s.shutdownTimeout != defaultShutdownTimeout {
		t.Errorf("shutdownTimeout = %v, zero must keep the default", s.shutdownTimeout)
	}

	if s.srv.Handler != h {
		t.Error("handler was not set")
	}
}

func TestHTTPServer_ShutdownStopsRun(t *testing.T) {
	s := NewHTTPServer(WithAddr("127.0.0.1", 0), WithShutdownTimeout(time.Second))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run()
	}()

	// Shutdown may race ahead of ListenAndServe, in which case Run returns ErrServerClosed at once.
	time.Sleep(20 * time.Millisecond)

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil after shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}
