package discovery

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bcbridge/bc/pkg/transport"
)

func TestMapStrategyResolve(t *testing.T) {
	registered := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		registered <- r.URL.Query().Get("port")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewMapStrategy(srv.URL, 2*time.Second, nil)

	resultCh := make(chan *Resolved, 1)
	errCh := make(chan error, 1)
	go func() {
		r, err := s.Resolve(t.Context(), "CAM-3")
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- r
	}()

	var port string
	select {
	case port = <-registered:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for registration")
	}
	if port == "" {
		t.Fatal("expected non-empty registered port")
	}

	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:"+port)
	if err != nil {
		t.Fatalf("ResolveTCPAddr: %v", err)
	}
	conn, err := net.DialTCP("tcp", nil, addr)
	if err != nil {
		t.Fatalf("camera reverse-dial: %v", err)
	}
	defer conn.Close()

	select {
	case r := <-resultCh:
		if r.Kind != transport.KindTCP {
			t.Fatalf("got kind %v, want KindTCP", r.Kind)
		}
		if r.Via != StrategyMap {
			t.Fatalf("got via %v, want StrategyMap", r.Via)
		}
	case err := <-errCh:
		t.Fatalf("Resolve: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reverse connection to be accepted")
	}
}
