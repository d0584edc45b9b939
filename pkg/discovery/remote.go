package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/logging"

	"github.com/bcbridge/bc/pkg/transport"
)

// registrarLookupResponse is the shape of the vendor registrar's UID
// lookup reply (spec.md Section 4.4, "Remote": "query a central registrar
// over HTTPS with the UID; receive the camera's reachable IP").
type registrarLookupResponse struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

// RemoteStrategy resolves a camera's last-known public address from a
// vendor registrar; the caller dials that address directly.
type RemoteStrategy struct {
	RegistrarURL string
	HTTPClient   *http.Client
	Timeout      time.Duration

	log logging.LeveledLogger

	// inflight enforces at-most-one outstanding lookup per UID
	// (spec.md Section 5, "Shared resources": "the central registrar HTTPS
	// client is shared across connectors and uses at-most-one in-flight
	// request per camera UID").
	mu       sync.Mutex
	inflight map[string]chan struct{}
}

// NewRemoteStrategy creates a RemoteStrategy targeting registrarURL.
func NewRemoteStrategy(registrarURL string, timeout time.Duration, loggerFactory logging.LoggerFactory) *RemoteStrategy {
	if timeout <= 0 {
		timeout = DefaultRegistrarTimeout
	}
	s := &RemoteStrategy{
		RegistrarURL: registrarURL,
		HTTPClient:   &http.Client{Timeout: timeout},
		Timeout:      timeout,
		inflight:     make(map[string]chan struct{}),
	}
	if loggerFactory != nil {
		s.log = loggerFactory.NewLogger("discovery-remote")
	}
	return s
}

// Resolve queries the registrar for uid's reachable address.
func (s *RemoteStrategy) Resolve(ctx context.Context, uid string) (*Resolved, error) {
	release := s.acquire(uid)
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	u, err := url.Parse(s.RegistrarURL)
	if err != nil {
		return nil, fmt.Errorf("discovery: invalid registrar url: %w", err)
	}
	q := u.Query()
	q.Set("uid", uid)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if s.log != nil {
		s.log.Debugf("discovery-remote: lookup %s request-id=%s", uid, requestID)
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
		Via:  StrategyRemote,
	}, nil
}

// acquire blocks until no other lookup for uid is in flight, then reserves
// the slot; the returned func releases it.
func (s *RemoteStrategy) acquire(uid string) func() {
	for {
		s.mu.Lock()
		if ch, ok := s.inflight[uid]; ok {
			s.mu.Unlock()
			<-ch
			continue
		}
		done := make(chan struct{})
		s.inflight[uid] = done
		s.mu.Unlock()
		return func() {
			s.mu.Lock()
			delete(s.inflight, uid)
			s.mu.Unlock()
			close(done)
		}
	}
}
