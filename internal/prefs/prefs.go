// Package prefs persists the organization, user and app preference records.
// Each record lives in its own TOML file inside the preferences directory.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	orgFile  = "org.toml"
	userFile = "user.toml"
	appFile  = "app.toml"

	recordVersion = "1.0"
	defaultTheme  = "dark"
	defaultLang   = "en"
)

// Org holds organization-wide settings.
type Org struct {
	Version    string `toml:"version" json:"version"`
	Theme      string `toml:"theme" json:"theme"`
	Language   string `toml:"language" json:"language"`
	Developer  string `toml:"developer" json:"developer"`
	LogLevel   string `toml:"log_level" json:"logLevel"`
	SupportURL string `toml:"support_url" json:"supportUrl"`
}

// Chain describes one configured blockchain.
type Chain struct {
	Chain          string   `toml:"chain" json:"chain"`
	ChainID        int      `toml:"chain_id" json:"chainId"`
	Symbol         string   `toml:"symbol" json:"symbol"`
	RemoteExplorer string   `toml:"remote_explorer" json:"remoteExplorer"`
	RPCProviders   []string `toml:"rpc_providers" json:"rpcProviders"`
}

// User holds the operator's identity and connectivity settings.
type User struct {
	Version  string   `toml:"version" json:"version"`
	Theme    string   `toml:"theme" json:"theme"`
	Language string   `toml:"language" json:"language"`
	Name     string   `toml:"name" json:"name"`
	Email    string   `toml:"email" json:"email"`
	RPCs     []string `toml:"rpcs" json:"rpcs"`
	Chains   []Chain  `toml:"chains" json:"chains"`
}

// App holds shell layout state.
type App struct {
	Version          string            `toml:"version" json:"version"`
	Name             string            `toml:"name" json:"name"`
	Theme            string            `toml:"theme" json:"theme"`
	MenuCollapsed    bool              `toml:"menu_collapsed" json:"menuCollapsed"`
	HelpCollapsed    bool              `toml:"help_collapsed" json:"helpCollapsed"`
	LastView         string            `toml:"last_view" json:"lastView"`
	LastViewNoWizard string            `toml:"last_view_no_wizard" json:"lastViewNoWizard"`
	LastTab          map[string]string `toml:"last_tab" json:"lastTab"`
	RecentFiles      []string          `toml:"recent_files" json:"recentFiles"`
	Initialized      bool              `toml:"initialized" json:"initialized"`
}

// DefaultOrg returns the organization defaults.
func DefaultOrg() Org {
	return Org{
		Version:    recordVersion,
		Theme:      defaultTheme,
		Language:   defaultLang,
		Developer:  "TrueBlocks, LLC",
		LogLevel:   "info",
		SupportURL: "https://github.com/TrueBlocks/trueblocks-core/issues",
	}
}

// DefaultUser returns an empty user record.
func DefaultUser() User {
	return User{Version: recordVersion, Theme: defaultTheme, Language: defaultLang}
}

// DefaultApp returns the app defaults.
func DefaultApp() App {
	return App{
		Version:  recordVersion,
		Name:     "deskshell",
		LastView: "/",
		LastTab:  map[string]string{},
	}
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	out := u
	out.RPCs = slices.Clone(u.RPCs)
	if u.Chains != nil {
		out.Chains = make([]Chain, len(u.Chains))
		for i, c := range u.Chains {
			c.RPCProviders = slices.Clone(c.RPCProviders)
			out.Chains[i] = c
		}
	}
	return out
}

// Clone returns a copy that shares no slices or maps with a.
func (a App) Clone() App {
	out := a
	out.RecentFiles = slices.Clone(a.RecentFiles)
	out.LastTab = make(map[string]string, len(a.LastTab))
	for k, v := range a.LastTab {
		out.LastTab[k] = v
	}
	return out
}

// LoadOrg reads org.toml from dir.
func LoadOrg(dir string) (Org, error) {
	rec := DefaultOrg()
	if err := load(filepath.Join(dir, orgFile), &rec); err != nil {
		return DefaultOrg(), err
	}
	if strings.TrimSpace(rec.Version) == "" {
		rec.Version = recordVersion
	}
	return rec, nil
}

// SaveOrg writes org.toml into dir.
func SaveOrg(dir string, rec Org) error {
	return save(filepath.Join(dir, orgFile), rec)
}

// LoadUser reads user.toml from dir.
func LoadUser(dir string) (User, error) {
	rec := DefaultUser()
	if err := load(filepath.Join(dir, userFile), &rec); err != nil {
		return DefaultUser(), err
	}
	return rec, nil
}

// SaveUser writes user.toml into dir.
func SaveUser(dir string, rec User) error {
	return save(filepath.Join(dir, userFile), rec)
}

// LoadApp reads app.toml from dir.
func LoadApp(dir string) (App, error) {
	rec := DefaultApp()
	if err := load(filepath.Join(dir, appFile), &rec); err != nil {
		return DefaultApp(), err
	}
	if rec.LastTab == nil {
		rec.LastTab = map[string]string{}
	}
	if strings.TrimSpace(rec.LastView) == "" {
		rec.LastView = "/"
	}
	return rec, nil
}

// SaveApp writes app.toml into dir.
func SaveApp(dir string, rec App) error {
	return save(filepath.Join(dir, appFile), rec)
}

// load decodes path into dest. A missing file leaves dest untouched.
func load(path string, dest any) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read prefs: %w", err)
	}
	if err := toml.Unmarshal(bytes, dest); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func save(path string, rec any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}
