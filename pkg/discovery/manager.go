package discovery

import (
	"context"
	"fmt"

	"github.com/pion/logging"
)

// resolver is satisfied by each strategy type; kept unexported since
// callers configure Manager with a Strategy order, not raw resolvers.
type resolver interface {
	Resolve(ctx context.Context, uid string) (*Resolved, error)
}

// ManagerConfig configures a discovery Manager.
type ManagerConfig struct {
	// Order is the sequence of strategies to try; defaults to DefaultOrder.
	Order []Strategy

	// RegistrarURL is required for StrategyRemote, StrategyMap, and
	// StrategyRelay.
	RegistrarURL string

	LoggerFactory logging.LoggerFactory
}

// Manager locates a camera by trying each configured Strategy in order,
// stopping at the first success (spec.md Section 4.4).
type Manager struct {
	order     []Strategy
	resolvers map[Strategy]resolver
	log       logging.LeveledLogger
}

// NewManager builds a Manager from config, constructing only the
// resolvers needed for the configured order.
func NewManager(config ManagerConfig) (*Manager, error) {
	order := config.Order
	if len(order) == 0 {
		order = DefaultOrder
	}

	m := &Manager{
		order:     order,
		resolvers: make(map[Strategy]resolver, len(order)),
	}
	if config.LoggerFactory != nil {
		m.log = config.LoggerFactory.NewLogger("discovery-manager")
	}

	for _, s := range order {
		switch s {
		case StrategyLocal:
			m.resolvers[s] = NewLocalStrategy(0, config.LoggerFactory)
		case StrategyRemote:
			if config.RegistrarURL == "" {
				return nil, fmt.Errorf("discovery: StrategyRemote requires RegistrarURL")
			}
			m.resolvers[s] = NewRemoteStrategy(config.RegistrarURL, 0, config.LoggerFactory)
		case StrategyMap:
			if config.RegistrarURL == "" {
				return nil, fmt.Errorf("discovery: StrategyMap requires RegistrarURL")
			}
			m.resolvers[s] = NewMapStrategy(config.RegistrarURL, 0, config.LoggerFactory)
		case StrategyRelay:
			if config.RegistrarURL == "" {
				return nil, fmt.Errorf("discovery: StrategyRelay requires RegistrarURL")
			}
			m.resolvers[s] = NewRelayStrategy(config.RegistrarURL, 0, config.LoggerFactory)
		default:
			return nil, fmt.Errorf("discovery: unknown strategy %v", s)
		}
	}

	return m, nil
}

// Resolve tries each configured strategy in order until one succeeds,
// returning the last strategy's error if all fail.
func (m *Manager) Resolve(ctx context.Context, uid string) (*Resolved, error) {
	if len(m.order) == 0 {
		return nil, ErrNoStrategiesConfigured
	}

	var lastErr error
	for _, s := range m.order {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		r := m.resolvers[s]
		result, err := r.Resolve(ctx, uid)
		if err == nil {
			if m.log != nil {
				m.log.Infof("discovery: resolved %s via %s -> %s", uid, s, result.Addr)
			}
			return result, nil
		}
		if m.log != nil {
			m.log.Warnf("discovery: strategy %s failed for %s: %v", s, uid, err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrAllStrategiesFailed, lastErr)
}
