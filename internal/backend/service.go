package backend

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/trueblocks/deskshell/internal/logging"
	"github.com/trueblocks/deskshell/internal/markdown"
	"github.com/trueblocks/deskshell/internal/prefs"
	"github.com/trueblocks/deskshell/internal/rpcprobe"
	"github.com/trueblocks/deskshell/internal/validation"
)

// maxRPCs caps the remembered RPC endpoints.
const maxRPCs = 5

// Service is the in-process backend. It keeps the three preference records in
// memory and writes them through to dir on every change.
type Service struct {
	dir    string
	prober rpcprobe.Prober
	help   fs.FS
	log    *log.Logger

	mu   sync.Mutex
	org  prefs.Org
	user prefs.User
	app  prefs.App
}

// Option customizes a Service.
type Option func(*Service)

// WithProber replaces the JSON-RPC prober.
func WithProber(p rpcprobe.Prober) Option {
	return func(s *Service) { s.prober = p }
}

// WithHelp replaces the help page filesystem.
func WithHelp(fsys fs.FS) Option {
	return func(s *Service) { s.help = fsys }
}

// WithLogger sets the logger behind Logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

// Open loads the preference records from dir.
func Open(dir string, opts ...Option) (*Service, error) {
	s := &Service{
		dir:    dir,
		prober: &rpcprobe.Client{},
		help:   markdown.Help(),
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.org, err = prefs.LoadOrg(dir); err != nil {
		return nil, fmt.Errorf("load org preferences: %w", err)
	}
	if s.user, err = prefs.LoadUser(dir); err != nil {
		return nil, fmt.Errorf("load user preferences: %w", err)
	}
	if s.app, err = prefs.LoadApp(dir); err != nil {
		return nil, fmt.Errorf("load app preferences: %w", err)
	}
	return s, nil
}

func (s *Service) GetOrgPreferences(context.Context) (prefs.Org, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.org, nil
}

func (s *Service) SetOrgPreferences(_ context.Context, org prefs.Org) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := prefs.SaveOrg(s.dir, org); err != nil {
		return err
	}
	s.org = org
	return nil
}

func (s *Service) GetUserPreferences(context.Context) (prefs.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone(), nil
}

func (s *Service) SetUserPreferences(_ context.Context, user prefs.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveUser(user.Clone())
}

func (s *Service) GetAppPreferences(context.Context) (prefs.App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Clone(), nil
}

func (s *Service) SetAppPreferences(_ context.Context, app prefs.App) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveApp(app.Clone())
}

// SetUserInfo stores the operator's trimmed name and email.
func (s *Service) SetUserInfo(_ context.Context, name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if verr := validation.Identity(name, email); verr != nil {
		return verr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.user.Clone()
	user.Name = name
	user.Email = email
	return s.saveUser(user)
}

// SetRPC moves url to the front of the RPC list, dropping duplicates and
// anything past the fifth entry.
func (s *Service) SetRPC(_ context.Context, url string) error {
	url = strings.TrimSpace(url)
	if verr := validation.RPC(url); verr != nil {
		return verr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.user.Clone()
	rpcs := []string{url}
	for _, existing := range user.RPCs {
		if existing != url {
			rpcs = append(rpcs, existing)
		}
	}
	if len(rpcs) > maxRPCs {
		rpcs = rpcs[:maxRPCs]
	}
	user.RPCs = rpcs
	return s.saveUser(user)
}

// CheckRPCStatus reports whether the primary RPC answers. The primary is the
// one SetRPC stored last; older fallbacks do not count. An unreachable
// endpoint is not an error.
func (s *Service) CheckRPCStatus(ctx context.Context) (bool, error) {
	s.mu.Lock()
	rpcs := slices.Clone(s.user.RPCs)
	s.mu.Unlock()
	return s.reachable(ctx, rpcs), nil
}

// reachable checks only rpcs[0].
func (s *Service) reachable(ctx context.Context, rpcs []string) bool {
	if len(rpcs) == 0 {
		return false
	}
	url, id, err := rpcprobe.FirstReachable(ctx, s.prober, rpcs[:1])
	if err != nil {
		s.log.Warn("rpc unreachable", "url", rpcs[0], "err", err)
		return false
	}
	s.log.Debug("rpc reachable", "url", url, "chain_id", id)
	return true
}

// GetWizardState derives the setup flags from the stored records.
func (s *Service) GetWizardState(ctx context.Context) (WizardState, error) {
	s.mu.Lock()
	user := s.user.Clone()
	recent := len(s.app.RecentFiles)
	s.mu.Unlock()

	state := WizardState{
		MissingNameEmail:      user.Name == "" || user.Email == "",
		RPCUnavailable:        true,
		MissingLastOpenedFile: recent == 0,
	}
	if !state.MissingNameEmail && len(user.RPCs) > 0 {
		state.RPCUnavailable = !s.reachable(ctx, user.RPCs)
	}
	return state, nil
}

func (s *Service) SetInitialized(_ context.Context, initialized bool) error {
	return s.updateApp(func(app *prefs.App) { app.Initialized = initialized })
}

func (s *Service) IsInitialized(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Initialized, nil
}

// ResetWizardState forgets everything first-run setup collects.
func (s *Service) ResetWizardState(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.user.Clone()
	user.Name = ""
	user.Email = ""
	user.RPCs = nil
	user.Chains = nil
	if err := s.saveUser(user); err != nil {
		return err
	}

	app := s.app.Clone()
	app.RecentFiles = nil
	app.Initialized = false
	return s.saveApp(app)
}

func (s *Service) SetMenuCollapsed(_ context.Context, collapsed bool) error {
	return s.updateApp(func(app *prefs.App) { app.MenuCollapsed = collapsed })
}

func (s *Service) SetHelpCollapsed(_ context.Context, collapsed bool) error {
	return s.updateApp(func(app *prefs.App) { app.HelpCollapsed = collapsed })
}

// SetLastView records route, and remembers it separately unless it is the
// wizard so setup can hand control back there.
func (s *Service) SetLastView(_ context.Context, route string) error {
	return s.updateApp(func(app *prefs.App) {
		app.LastView = route
		if route != WizardRoute {
			app.LastViewNoWizard = route
		}
	})
}

func (s *Service) GetWizardReturn(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.app.LastViewNoWizard == "" {
		return "/", nil
	}
	return s.app.LastViewNoWizard, nil
}

func (s *Service) SetLastTab(_ context.Context, route, tab string) error {
	return s.updateApp(func(app *prefs.App) { app.LastTab[route] = tab })
}

func (s *Service) GetLastTab(_ context.Context, route string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.LastTab[route], nil
}

func (s *Service) GetMarkdown(_ context.Context, lang, route, tab string) (string, error) {
	return markdown.Get(s.help, lang, route, tab), nil
}

// Logger writes msg to the backend log.
func (s *Service) Logger(msg string) {
	s.log.Info(msg, "source", "shell")
}

func (s *Service) updateApp(mutate func(*prefs.App)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app := s.app.Clone()
	mutate(&app)
	return s.saveApp(app)
}

// saveUser and saveApp must be called with mu held.
func (s *Service) saveUser(user prefs.User) error {
	if err := prefs.SaveUser(s.dir, user); err != nil {
		return err
	}
	s.user = user
	return nil
}

func (s *Service) saveApp(app prefs.App) error {
	if err := prefs.SaveApp(s.dir, app); err != nil {
		return err
	}
	s.app = app
	return nil
}
