package backend

import (
	"context"

	"github.com/trueblocks/deskshell/internal/prefs"
)

// WizardRoute is the route of the first-run setup flow.
const WizardRoute = "/wizard"

// WizardState reports which parts of first-run setup are still missing.
type WizardState struct {
	MissingNameEmail      bool `json:"missingNameEmail"`
	RPCUnavailable        bool `json:"rpcUnavailable"`
	MissingLastOpenedFile bool `json:"missingLastOpenedFile"`
}

// Backend is the collaborator surface the shell consumes. *Service serves it
// in-process and *Client serves it over HTTP.
type Backend interface {
	GetOrgPreferences(ctx context.Context) (prefs.Org, error)
	SetOrgPreferences(ctx context.Context, org prefs.Org) error
	GetUserPreferences(ctx context.Context) (prefs.User, error)
	SetUserPreferences(ctx context.Context, user prefs.User) error
	GetAppPreferences(ctx context.Context) (prefs.App, error)
	SetAppPreferences(ctx context.Context, app prefs.App) error

	SetUserInfo(ctx context.Context, name, email string) error
	SetRPC(ctx context.Context, url string) error
	CheckRPCStatus(ctx context.Context) (bool, error)
	GetWizardState(ctx context.Context) (WizardState, error)
	SetInitialized(ctx context.Context, initialized bool) error
	IsInitialized(ctx context.Context) (bool, error)
	ResetWizardState(ctx context.Context) error

	SetMenuCollapsed(ctx context.Context, collapsed bool) error
	SetHelpCollapsed(ctx context.Context, collapsed bool) error
	SetLastView(ctx context.Context, route string) error
	GetWizardReturn(ctx context.Context) (string, error)
	SetLastTab(ctx context.Context, route, tab string) error
	GetLastTab(ctx context.Context, route string) (string, error)

	GetMarkdown(ctx context.Context, lang, route, tab string) (string, error)

	// Logger is a fire-and-forget diagnostic sink.
	Logger(msg string)
}

// Ensure both implementations satisfy Backend at compile time.
var (
	_ Backend = (*Service)(nil)
	_ Backend = (*Client)(nil)
)
