package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/bcbridge/bc/pkg/transport"
)

type fakeResolver struct {
	result *Resolved
	err    error
}

func (f *fakeResolver) Resolve(ctx context.Context, uid string) (*Resolved, error) {
	return f.result, f.err
}

func TestManagerTriesInOrderAndStopsAtFirstSuccess(t *testing.T) {
	m := &Manager{
		order: []Strategy{StrategyLocal, StrategyRemote},
		resolvers: map[Strategy]resolver{
			StrategyLocal:  &fakeResolver{err: errors.New("no camera on subnet")},
			StrategyRemote: &fakeResolver{result: &Resolved{UID: "CAM-1", Kind: transport.KindTCP, Addr: "1.2.3.4:9000", Via: StrategyRemote}},
		},
	}

	got, err := m.Resolve(context.Background(), "CAM-1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Via != StrategyRemote {
		t.Fatalf("got via %v, want StrategyRemote", got.Via)
	}
}

func TestManagerAllStrategiesFail(t *testing.T) {
	m := &Manager{
		order: []Strategy{StrategyLocal, StrategyRemote},
		resolvers: map[Strategy]resolver{
			StrategyLocal:  &fakeResolver{err: errors.New("no camera on subnet")},
			StrategyRemote: &fakeResolver{err: errors.New("registrar unreachable")},
		},
	}

	_, err := m.Resolve(context.Background(), "CAM-2")
	if !errors.Is(err, ErrAllStrategiesFailed) {
		t.Fatalf("got %v, want ErrAllStrategiesFailed", err)
	}
}

func TestManagerNoStrategiesConfigured(t *testing.T) {
	m := &Manager{}
	if _, err := m.Resolve(context.Background(), "CAM-3"); err != ErrNoStrategiesConfigured {
		t.Fatalf("got %v, want ErrNoStrategiesConfigured", err)
	}
}
