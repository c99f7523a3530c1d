// Package wizard sequences first-run setup: identity, RPC connectivity and a
// closing summary.
package wizard

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/trueblocks/deskshell/internal/backend"
	"github.com/trueblocks/deskshell/internal/prefs"
	"github.com/trueblocks/deskshell/internal/validation"
)

// Step is a wizard page.
type Step int

const (
	StepIdentity Step = iota
	StepConnectivity
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepConnectivity:
		return "Connectivity"
	case StepComplete:
		return "Complete"
	default:
		return "Identity"
	}
}

// Field names used in Validation and in the step forms.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldRPC            = "rpcUrl"
	FieldChainName      = "chainName"
	FieldChainID        = "chainId"
	FieldSymbol         = "symbol"
	FieldRemoteExplorer = "remoteExplorer"
)

// Messages for backend failures.
const (
	MsgLoadFailed     = "Failed to load setup state"
	MsgSaveUserFailed = "Failed to save user information"
	MsgSetRPCFailed   = "Failed to set RPC"
	MsgRPCUnreachable = "Unable to connect to RPC"
	MsgChainIDNumeric = "Chain ID must be a number"
	MsgSaveChain      = "Failed to save chain"
	MsgCompleteFailed = "Failed to complete setup"
)

// Data is what the operator has entered.
type Data struct {
	Name           string
	Email          string
	RPCURL         string
	ChainName      string
	ChainID        string
	Symbol         string
	RemoteExplorer string
}

// UI tracks the page and pending calls.
type UI struct {
	Step           Step
	InitialLoading bool
	Loading        bool
}

// API mirrors what the backend last reported.
type API struct {
	Initialized      bool
	MissingNameEmail bool
	RPCUnavailable   bool
}

// State is the whole wizard. Validation maps field names to inline errors and
// Err holds a step-level error.
type State struct {
	Data       Data
	Validation map[string]string
	UI         UI
	API        API
	Err        string
}

// NewState returns the state before anything has been loaded.
func NewState() State {
	return State{
		Validation: map[string]string{},
		UI:         UI{InitialLoading: true},
		API:        API{MissingNameEmail: true, RPCUnavailable: true},
	}
}

// InitialStep picks the first page that still needs input.
func InitialStep(ws backend.WizardState) Step {
	switch {
	case ws.MissingNameEmail:
		return StepIdentity
	case ws.RPCUnavailable:
		return StepConnectivity
	default:
		return StepComplete
	}
}

// Machine applies wizard operations to a State. Every method takes a State
// and returns the next one.
type Machine struct {
	backend backend.Backend
}

// NewMachine builds a machine over b.
func NewMachine(b backend.Backend) Machine {
	return Machine{backend: b}
}

// Load reads readiness and prefills Data from the stored preferences.
func (m Machine) Load(ctx context.Context, st State) State {
	st.UI.InitialLoading = false
	st.Validation = map[string]string{}
	st.Err = ""

	ws, err := m.backend.GetWizardState(ctx)
	if err != nil {
		st.UI.Step = StepIdentity
		st.Err = MsgLoadFailed
		return st
	}
	st.API.MissingNameEmail = ws.MissingNameEmail
	st.API.RPCUnavailable = ws.RPCUnavailable
	if initialized, err := m.backend.IsInitialized(ctx); err == nil {
		st.API.Initialized = initialized
	}

	if user, err := m.backend.GetUserPreferences(ctx); err == nil {
		prefill(&st.Data.Name, user.Name)
		prefill(&st.Data.Email, user.Email)
		if len(user.RPCs) > 0 {
			prefill(&st.Data.RPCURL, user.RPCs[0])
		}
		if len(user.Chains) > 0 {
			c := user.Chains[0]
			prefill(&st.Data.ChainName, c.Chain)
			if c.ChainID != 0 {
				prefill(&st.Data.ChainID, strconv.Itoa(c.ChainID))
			}
			prefill(&st.Data.Symbol, c.Symbol)
			prefill(&st.Data.RemoteExplorer, c.RemoteExplorer)
		}
	}

	st.UI.Step = InitialStep(ws)
	return st
}

func prefill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// SubmitIdentity validates and stores name and email, then moves to
// connectivity.
func (m Machine) SubmitIdentity(ctx context.Context, st State) State {
	st.Data.Name = strings.TrimSpace(st.Data.Name)
	st.Data.Email = strings.TrimSpace(st.Data.Email)
	st.Validation = map[string]string{}
	st.Err = ""

	if st.Data.Name == "" {
		st.Validation[FieldName] = validation.MsgNameRequired
	}
	switch {
	case st.Data.Email == "":
		st.Validation[FieldEmail] = validation.MsgEmailRequired
	case !validation.ValidEmail(st.Data.Email):
		st.Validation[FieldEmail] = validation.MsgEmailInvalid
	}
	if len(st.Validation) > 0 {
		return st
	}

	if err := m.backend.SetUserInfo(ctx, st.Data.Name, st.Data.Email); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			st.Validation[verr.Field] = verr.Message
		} else {
			st.Err = MsgSaveUserFailed
		}
		return st
	}
	st.API.MissingNameEmail = false
	st.UI.Step = StepConnectivity
	return st
}

// SubmitConnectivity stores the RPC, probes it and records the optional chain
// before moving to the summary.
func (m Machine) SubmitConnectivity(ctx context.Context, st State) State {
	st.Data.RPCURL = strings.TrimSpace(st.Data.RPCURL)
	st.Data.ChainName = strings.TrimSpace(st.Data.ChainName)
	st.Data.ChainID = strings.TrimSpace(st.Data.ChainID)
	st.Validation = map[string]string{}
	st.Err = ""

	if verr := validation.RPC(st.Data.RPCURL); verr != nil {
		st.Validation[FieldRPC] = verr.Message
		return st
	}
	chainID := 0
	if st.Data.ChainID != "" {
		id, err := strconv.Atoi(st.Data.ChainID)
		if err != nil {
			st.Validation[FieldChainID] = MsgChainIDNumeric
			return st
		}
		chainID = id
	}

	if err := m.backend.SetRPC(ctx, st.Data.RPCURL); err != nil {
		st.Validation[FieldRPC] = MsgSetRPCFailed
		return st
	}
	ok, err := m.backend.CheckRPCStatus(ctx)
	if err != nil || !ok {
		st.API.RPCUnavailable = true
		st.Validation[FieldRPC] = MsgRPCUnreachable
		return st
	}
	st.API.RPCUnavailable = false

	if st.Data.ChainName != "" {
		if err := m.saveChain(ctx, st.Data, chainID); err != nil {
			st.Err = MsgSaveChain
			return st
		}
	}
	st.UI.Step = StepComplete
	return st
}

// saveChain inserts or replaces the chain named in d.
func (m Machine) saveChain(ctx context.Context, d Data, chainID int) error {
	user, err := m.backend.GetUserPreferences(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, c := range user.Chains {
		if strings.EqualFold(c.Chain, d.ChainName) {
			idx = i
			break
		}
	}
	if idx < 0 {
		user.Chains = append(user.Chains, prefs.Chain{Chain: d.ChainName})
		idx = len(user.Chains) - 1
	}
	c := &user.Chains[idx]
	c.Chain = d.ChainName
	if chainID != 0 {
		c.ChainID = chainID
	}
	if d.Symbol != "" {
		c.Symbol = strings.TrimSpace(d.Symbol)
	}
	if d.RemoteExplorer != "" {
		c.RemoteExplorer = strings.TrimSpace(d.RemoteExplorer)
	}
	if !slices.Contains(c.RPCProviders, d.RPCURL) {
		c.RPCProviders = append([]string{d.RPCURL}, c.RPCProviders...)
	}
	return m.backend.SetUserPreferences(ctx, user)
}

// Complete marks setup finished and returns the route to leave for.
func (m Machine) Complete(ctx context.Context, st State) (State, string) {
	st.Err = ""
	if err := m.backend.SetInitialized(ctx, true); err != nil {
		st.Err = MsgCompleteFailed
		return st, ""
	}
	st.API.Initialized = true

	route, err := m.backend.GetWizardReturn(ctx)
	if err != nil || route == "" || route == backend.WizardRoute {
		route = "/"
	}
	return st, route
}

// Back returns to the previous step without validating. Data is kept.
func (m Machine) Back(st State) State {
	if st.UI.Step > StepIdentity {
		st.UI.Step--
	}
	st.Validation = map[string]string{}
	st.Err = ""
	return st
}

