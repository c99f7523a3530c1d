package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/validation"
)

type prober struct {
	up bool
}

func (p prober) ChainID(context.Context, string) (uint64, error) {
	if p.up {
		return 1, nil
	}
	return 0, errors.New("connection refused")
}

// flaky wraps a Service and fails selected calls.
type flaky struct {
	*backend.Service
	userInfoErr error
	rpcErr      error
	userInfos   int
}

func (f *flaky) SetUserInfo(ctx context.Context, name, email string) error {
	f.userInfos++
	if f.userInfoErr != nil {
		return f.userInfoErr
	}
	return f.Service.SetUserInfo(ctx, name, email)
}

func (f *flaky) SetRPC(ctx context.Context, url string) error {
	if f.rpcErr != nil {
		return f.rpcErr
	}
	return f.Service.SetRPC(ctx, url)
}

func newBackend(t *testing.T, up bool) *flaky {
	t.Helper()
	svc, err := backend.Open(t.TempDir(), backend.WithProber(prober{up: up}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return &flaky{Service: svc}
}

func TestInitialStep(t *testing.T) {
	tests := []struct {
		ws   backend.WizardState
		want Step
	}{
		{backend.WizardState{MissingNameEmail: true, RPCUnavailable: true}, StepIdentity},
		{backend.WizardState{MissingNameEmail: true}, StepIdentity},
		{backend.WizardState{RPCUnavailable: true}, StepConnectivity},
		{backend.WizardState{}, StepComplete},
		{backend.WizardState{MissingLastOpenedFile: true}, StepComplete},
	}
	for _, tt := range tests {
		if got := InitialStep(tt.ws); got != tt.want {
			t.Fatalf("InitialStep(%+v) = %v, want %v", tt.ws, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh install", func(t *testing.T) {
		b := newBackend(t, true)
		st := NewMachine(b).Load(ctx, NewState())
		if st.UI.InitialLoading {
			t.Fatal("InitialLoading still set")
		}
		if st.UI.Step != StepIdentity || !st.API.MissingNameEmail {
			t.Fatalf("step = %v api = %+v, want identity with missing name", st.UI.Step, st.API)
		}
	})

	t.Run("identity stored", func(t *testing.T) {
		b := newBackend(t, true)
		_ = b.Service.SetUserInfo(ctx, "Ann", "ann@example.com")
		st := NewMachine(b).Load(ctx, NewState())
		if st.UI.Step != StepConnectivity {
			t.Fatalf("step = %v, want connectivity", st.UI.Step)
		}
		if st.Data.Name != "Ann" || st.Data.Email != "ann@example.com" {
			t.Fatalf("data = %+v, want prefilled identity", st.Data)
		}
	})

	t.Run("everything ready", func(t *testing.T) {
		b := newBackend(t, true)
		_ = b.Service.SetUserInfo(ctx, "Ann", "ann@example.com")
		_ = b.Service.SetRPC(ctx, "http://node:8545")
		_ = b.Service.SetInitialized(ctx, true)
		st := NewMachine(b).Load(ctx, NewState())
		if st.UI.Step != StepComplete {
			t.Fatalf("step = %v, want complete", st.UI.Step)
		}
		if st.Data.RPCURL != "http://node:8545" || !st.API.Initialized {
			t.Fatalf("state = %+v, want rpc prefilled and initialized", st)
		}
	})
}

func TestSubmitIdentity(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name, email string
		wantField   string
		wantMsg     string
	}{
		{"", "ann@example.com", FieldName, validation.MsgNameRequired},
		{"  ", "ann@example.com", FieldName, validation.MsgNameRequired},
		{"Ann", "", FieldEmail, validation.MsgEmailRequired},
		{"Ann", "not-an-email", FieldEmail, validation.MsgEmailInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			b := newBackend(t, true)
			st := NewState()
			st.Data.Name, st.Data.Email = tt.name, tt.email
			st = NewMachine(b).SubmitIdentity(ctx, st)
			if got := st.Validation[tt.wantField]; got != tt.wantMsg {
				t.Fatalf("Validation[%s] = %q, want %q", tt.wantField, got, tt.wantMsg)
			}
			if st.UI.Step != StepIdentity {
				t.Fatalf("step = %v, want identity", st.UI.Step)
			}
			if b.userInfos != 0 {
				t.Fatalf("SetUserInfo called %d times, want 0", b.userInfos)
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		b := newBackend(t, true)
		st := NewState()
		st.Data.Name, st.Data.Email = "  Ann ", " ann@example.com "
		st = NewMachine(b).SubmitIdentity(ctx, st)
		if st.UI.Step != StepConnectivity || len(st.Validation) != 0 {
			t.Fatalf("step = %v validation = %v, want connectivity", st.UI.Step, st.Validation)
		}
		user, _ := b.GetUserPreferences(ctx)
		if user.Name != "Ann" || user.Email != "ann@example.com" {
			t.Fatalf("stored %q %q, want trimmed identity", user.Name, user.Email)
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		b := newBackend(t, true)
		b.userInfoErr = errors.New("disk full")
		st := NewState()
		st.Data.Name, st.Data.Email = "Ann", "ann@example.com"
		st = NewMachine(b).SubmitIdentity(ctx, st)
		if st.Err != MsgSaveUserFailed || st.UI.Step != StepIdentity {
			t.Fatalf("err = %q step = %v, want save failure on identity", st.Err, st.UI.Step)
		}
	})

	t.Run("resubmit repeats the write", func(t *testing.T) {
		b := newBackend(t, true)
		m := NewMachine(b)
		st := NewState()
		st.Data.Name, st.Data.Email = "Ann", "ann@example.com"
		st = m.SubmitIdentity(ctx, st)
		st = m.Back(st)
		st = m.SubmitIdentity(ctx, st)
		if b.userInfos != 2 || st.UI.Step != StepConnectivity {
			t.Fatalf("writes = %d step = %v, want 2 writes and connectivity", b.userInfos, st.UI.Step)
		}
	})
}

func connectivityState(url string) State {
	st := NewState()
	st.UI.Step = StepConnectivity
	st.Data.RPCURL = url
	return st
}

func TestSubmitConnectivity(t *testing.T) {
	ctx := context.Background()

	t.Run("scheme required", func(t *testing.T) {
		b := newBackend(t, true)
		st := NewMachine(b).SubmitConnectivity(ctx, connectivityState("localhost:8545"))
		if st.Validation[FieldRPC] != validation.MsgRPCScheme {
			t.Fatalf("Validation[rpcUrl] = %q, want scheme error", st.Validation[FieldRPC])
		}
		user, _ := b.GetUserPreferences(ctx)
		if len(user.RPCs) != 0 {
			t.Fatalf("RPCs = %v, want none stored", user.RPCs)
		}
	})

	t.Run("empty", func(t *testing.T) {
		b := newBackend(t, true)
		st := NewMachine(b).SubmitConnectivity(ctx, connectivityState("   "))
		if st.Validation[FieldRPC] != validation.MsgRPCRequired {
			t.Fatalf("Validation[rpcUrl] = %q, want required", st.Validation[FieldRPC])
		}
	})

	t.Run("chain id numeric", func(t *testing.T) {
		b := newBackend(t, true)
		st := connectivityState("http://node:8545")
		st.Data.ChainID = "one"
		st = NewMachine(b).SubmitConnectivity(ctx, st)
		if st.Validation[FieldChainID] != MsgChainIDNumeric {
			t.Fatalf("Validation[chainId] = %q, want numeric error", st.Validation[FieldChainID])
		}
	})

	t.Run("set rpc fails", func(t *testing.T) {
		b := newBackend(t, true)
		b.rpcErr = errors.New("boom")
		st := NewMachine(b).SubmitConnectivity(ctx, connectivityState("http://node:8545"))
		if st.Validation[FieldRPC] != MsgSetRPCFailed || st.UI.Step != StepConnectivity {
			t.Fatalf("Validation[rpcUrl] = %q step = %v", st.Validation[FieldRPC], st.UI.Step)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		b := newBackend(t, false)
		st := NewMachine(b).SubmitConnectivity(ctx, connectivityState("http://node:8545"))
		if st.Validation[FieldRPC] != MsgRPCUnreachable || st.UI.Step != StepConnectivity {
			t.Fatalf("Validation[rpcUrl] = %q step = %v", st.Validation[FieldRPC], st.UI.Step)
		}
		if !st.API.RPCUnavailable {
			t.Fatal("RPCUnavailable = false, want true")
		}
	})

	t.Run("success with chain", func(t *testing.T) {
		b := newBackend(t, true)
		st := connectivityState(" http://node:8545 ")
		st.Data.ChainName = "mainnet"
		st.Data.ChainID = "1"
		st.Data.Symbol = "ETH"
		st = NewMachine(b).SubmitConnectivity(ctx, st)
		if st.UI.Step != StepComplete || st.Err != "" {
			t.Fatalf("step = %v err = %q, want complete", st.UI.Step, st.Err)
		}
		user, _ := b.GetUserPreferences(ctx)
		if len(user.RPCs) != 1 || user.RPCs[0] != "http://node:8545" {
			t.Fatalf("RPCs = %v, want trimmed url", user.RPCs)
		}
		if len(user.Chains) != 1 {
			t.Fatalf("chains = %+v, want one", user.Chains)
		}
		c := user.Chains[0]
		if c.Chain != "mainnet" || c.ChainID != 1 || c.Symbol != "ETH" || c.RPCProviders[0] != "http://node:8545" {
			t.Fatalf("chain = %+v", c)
		}
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	b := newBackend(t, true)
	st, route := NewMachine(b).Complete(ctx, NewState())
	if route != "/" {
		t.Fatalf("route = %q, want /", route)
	}
	if !st.API.Initialized {
		t.Fatal("Initialized = false")
	}
	if ok, _ := b.IsInitialized(ctx); !ok {
		t.Fatal("backend not initialized")
	}

	_ = b.SetLastView(ctx, "/data")
	_ = b.SetLastView(ctx, backend.WizardRoute)
	if _, route = NewMachine(b).Complete(ctx, st); route != "/data" {
		t.Fatalf("route = %q, want /data", route)
	}
}

func TestBack(t *testing.T) {
	m := NewMachine(nil)
	st := NewState()
	st.UI.Step = StepComplete
	st.Data.Name = "Ann"
	st.Validation[FieldRPC] = "x"

	st = m.Back(st)
	if st.UI.Step != StepConnectivity || len(st.Validation) != 0 || st.Data.Name != "Ann" {
		t.Fatalf("after back: %+v", st)
	}
	st = m.Back(m.Back(st))
	if st.UI.Step != StepIdentity {
		t.Fatalf("step = %v, want identity", st.UI.Step)
	}
}
