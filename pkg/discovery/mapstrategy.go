package discovery

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pion/logging"

	"github.com/bcbridge/bc/pkg/transport"
)

// MapStrategy registers this client's reachable address with the
// registrar and waits for the camera to connect back, for cameras sitting
// behind NAT that cannot be dialed directly (spec.md Section 4.4, "Map").
type MapStrategy struct {
	RegistrarURL string
	HTTPClient   *http.Client
	Timeout      time.Duration

	log logging.LeveledLogger
}

// NewMapStrategy creates a MapStrategy targeting registrarURL.
func NewMapStrategy(registrarURL string, timeout time.Duration, loggerFactory logging.LoggerFactory) *MapStrategy {
	if timeout <= 0 {
		timeout = DefaultMapTimeout
	}
	s := &MapStrategy{
		RegistrarURL: registrarURL,
		HTTPClient:   &http.Client{Timeout: timeout},
		Timeout:      timeout,
	}
	if loggerFactory != nil {
		s.log = loggerFactory.NewLogger("discovery-map")
	}
	return s
}

// Resolve opens a listener, registers its address with the registrar under
// uid, and waits for the camera to connect back to it.
func (s *MapStrategy) Resolve(ctx context.Context, uid string) (*Resolved, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		return nil, fmt.Errorf("discovery: map listen: %w", err)
	}

	if err := s.register(ctx, uid, ln.Addr().(*net.TCPAddr).Port); err != nil {
		ln.Close()
		return nil, err
	}

	acceptedCh := make(chan net.Conn, 1)
	errCh := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			errCh <- err
			return
		}
		acceptedCh <- conn
	}()

	select {
	case conn := <-acceptedCh:
		ln.Close()
		return &Resolved{
			UID:       uid,
			Kind:      transport.KindTCP,
			Addr:      conn.RemoteAddr().String(),
			Via:       StrategyMap,
			LocalAddr: ln.Addr(),
		}, nil
	case err := <-errCh:
		ln.Close()
		return nil, err
	case <-ctx.Done():
		ln.Close()
		return nil, ErrTimeout
	}
}

func (s *MapStrategy) register(ctx context.Context, uid string, port int) error {
	u, err := url.Parse(s.RegistrarURL)
	if err != nil {
		return fmt.Errorf("discovery: invalid registrar url: %w", err)
	}
	q := u.Query()
	q.Set("uid", uid)
	q.Set("port", fmt.Sprintf("%d", port))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistrarUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: registrar returned %s", ErrRegistrarUnreachable, resp.Status)
	}
	return nil
}
