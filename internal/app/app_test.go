package app

import (
	"context"
	"errors"
	"testing"

	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/config"
)

type okProber struct{}

func (okProber) ChainID(context.Context, string) (uint64, error) { return 1, nil }

type offlineBackend struct{ backend.Backend }

func (offlineBackend) IsInitialized(context.Context) (bool, error) {
	return false, errors.New("connection refused")
}

func TestStartupRoute(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		identity bool
		init     bool
		lastView string
		want     string
	}{
		{name: "fresh install", want: backend.WizardRoute},
		{name: "initialized without identity", init: true, lastView: "/data", want: backend.WizardRoute},
		{name: "identity but not initialized", identity: true, lastView: "/data", want: backend.WizardRoute},
		{name: "reopens last view", identity: true, init: true, lastView: "/data", want: "/data"},
		{name: "never reopens wizard", identity: true, init: true, lastView: backend.WizardRoute, want: "/"},
		{name: "unknown last view", identity: true, init: true, lastView: "/gone", want: "/"},
		{name: "no last view", identity: true, init: true, want: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := backend.Open(t.TempDir(), backend.WithProber(okProber{}))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if tt.identity {
				if err := svc.SetUserInfo(ctx, "Anne", "anne@example.com"); err != nil {
					t.Fatalf("SetUserInfo: %v", err)
				}
			}
			if err := svc.SetInitialized(ctx, tt.init); err != nil {
				t.Fatalf("SetInitialized: %v", err)
			}
			if tt.lastView != "" {
				if err := svc.SetLastView(ctx, tt.lastView); err != nil {
					t.Fatalf("SetLastView: %v", err)
				}
			}
			if got := startupRoute(ctx, svc); got != tt.want {
				t.Fatalf("startupRoute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStartupRouteBackendDown(t *testing.T) {
	if got := startupRoute(context.Background(), offlineBackend{}); got != backend.WizardRoute {
		t.Fatalf("startupRoute() = %q, want %q", got, backend.WizardRoute)
	}
}

func TestOpenBackend(t *testing.T) {
	cfg := config.Default()
	cfg.PrefsDir = t.TempDir()

	local, err := OpenBackend(cfg, false, quiet())
	if err != nil {
		t.Fatalf("OpenBackend(local): %v", err)
	}
	if _, ok := local.(*backend.Service); !ok {
		t.Fatalf("local backend = %T, want *backend.Service", local)
	}

	remote, err := OpenBackend(cfg, true, quiet())
	if err != nil {
		t.Fatalf("OpenBackend(remote): %v", err)
	}
	if _, ok := remote.(*backend.Client); !ok {
		t.Fatalf("remote backend = %T, want *backend.Client", remote)
	}
}
