package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pion/logging"

	"github.com/bcbridge/bc/pkg/transport"
)

// RelayStrategy tunnels the whole session through the registrar when
// neither side can reach the other directly (spec.md Section 4.4, "Relay").
// The registrar exposes a per-UID relay endpoint that this client dials as
// an ordinary TCP stream; the registrar proxies bytes to the camera.
type RelayStrategy struct {
	RegistrarURL string
	HTTPClient   *http.Client
	Timeout      time.Duration

	log logging.LeveledLogger
}

// NewRelayStrategy creates a RelayStrategy targeting registrarURL.
func NewRelayStrategy(registrarURL string, timeout time.Duration, loggerFactory logging.LoggerFactory) *RelayStrategy {
	if timeout <= 0 {
		timeout = DefaultRegistrarTimeout
	}
	s := &RelayStrategy{
		RegistrarURL: registrarURL,
		HTTPClient:   &http.Client{Timeout: timeout},
		Timeout:      timeout,
	}
	if loggerFactory != nil {
		s.log = loggerFactory.NewLogger("discovery-relay")
	}
	return s
}

// Resolve asks the registrar for a relay endpoint for uid. The returned
// Resolved.Addr is a registrar-owned host:port that proxies to the camera;
// the caller dials it exactly like any other TCP camera address.
func (s *RelayStrategy) Resolve(ctx context.Context, uid string) (*Resolved, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	u, err := url.Parse(s.RegistrarURL)
	if err != nil {
		return nil, fmt.Errorf("discovery: invalid registrar url: %w", err)
	}
	u.Path = u.Path + "/relay"
	q := u.Query()
	q.Set("uid", uid)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if s.log != nil {
		s.log.Debugf("discovery-relay: lookup %s request-id=%s", uid, requestID)
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistrarUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: registrar returned %s", ErrRegistrarUnreachable, resp.Status)
	}

	var lookup registrarLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if lookup.IP == "" {
		return nil, ErrMalformedResponse
	}

	return &Resolved{
		UID:  uid,
		Kind: transport.KindTCP,
		Addr: fmt.Sprintf("%s:%d", lookup.IP, lookup.Port),
		Via:  StrategyRelay,
	}, nil
}
