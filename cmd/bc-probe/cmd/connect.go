package cmd

import (
	"context"
	"fmt"

	"github.com/bcbridge/bc/pkg/bcconfig"
	"github.com/bcbridge/bc/pkg/discovery"
	"github.com/bcbridge/bc/pkg/session"
	"github.com/bcbridge/bc/pkg/transport"
)

// resolve locates the camera: Host, if set, is dialed directly as TCP;
// otherwise discovery.Manager tries cfg's strategy order.
func resolve(ctx context.Context, cfg bcconfig.CameraConfig) (kind transport.Kind, addr string, connID uint32, via discovery.Strategy, err error) {
	if cfg.Host != "" {
		return transport.KindTCP, fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), 0, 0, nil
	}

	mgr, err := discovery.NewManager(cfg.ManagerConfig())
	if err != nil {
		return 0, "", 0, 0, fmt.Errorf("discovery manager: %w", err)
	}
	res, err := mgr.Resolve(ctx, cfg.UID)
	if err != nil {
		return 0, "", 0, 0, fmt.Errorf("resolve %s: %w", cfg.UID, err)
	}
	return res.Kind, res.Addr, res.ConnectionID, res.Via, nil
}

// connectAndLogin resolves the camera, dials it, and runs the BC login
// handshake, returning a ready Session.
func connectAndLogin(ctx context.Context, cfg bcconfig.CameraConfig) (*session.Session, error) {
	kind, addr, connID, via, err := resolve(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.LoggerFactory != nil {
		cfg.LoggerFactory.NewLogger("bc-probe").Infof("dialing %s via %s (strategy %s)", addr, kind, via)
	}

	tm := transport.NewManager(cfg.LoggerFactory)
	conn, err := tm.Dial(ctx, kind, addr, connID)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	sess := session.NewSession(cfg.SessionConfig(conn))
	if err := sess.Login(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("login: %w", err)
	}
	return sess, nil
}
