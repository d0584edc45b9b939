package discovery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bcbridge/bc/pkg/transport"
)

func TestRemoteStrategyResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("uid") != "CAM-1" {
			t.Errorf("got uid %q, want CAM-1", r.URL.Query().Get("uid"))
		}
		w.Write([]byte(`{"ip":"203.0.113.5","port":9000}`))
	}))
	defer srv.Close()

	s := NewRemoteStrategy(srv.URL, 0, nil)
	got, err := s.Resolve(t.Context(), "CAM-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Kind != transport.KindTCP {
		t.Fatalf("got kind %v, want KindTCP", got.Kind)
	}
	if got.Addr != "203.0.113.5:9000" {
		t.Fatalf("got addr %q", got.Addr)
	}
	if got.Via != StrategyRemote {
		t.Fatalf("got via %v, want StrategyRemote", got.Via)
	}
}

func TestRemoteStrategyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewRemoteStrategy(srv.URL, 0, nil)
	if _, err := s.Resolve(t.Context(), "CAM-2"); err == nil {
		t.Fatal("expected error for 404 registrar response")
	}
}
