package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()

	org, err := LoadOrg(dir)
	if err != nil {
		t.Fatalf("LoadOrg returned error: %v", err)
	}
	if org.Developer != "TrueBlocks, LLC" || org.Version != "1.0" || org.Language != "en" {
		t.Fatalf("LoadOrg = %+v, want defaults", org)
	}

	user, err := LoadUser(dir)
	if err != nil {
		t.Fatalf("LoadUser returned error: %v", err)
	}
	if user.Name != "" || len(user.RPCs) != 0 {
		t.Fatalf("LoadUser = %+v, want empty identity", user)
	}

	app, err := LoadApp(dir)
	if err != nil {
		t.Fatalf("LoadApp returned error: %v", err)
	}
	if app.LastView != "/" || app.LastTab == nil || app.Initialized {
		t.Fatalf("LoadApp = %+v, want defaults", app)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "prefs")

	user := DefaultUser()
	user.Name = "Ada"
	user.Email = "ada@example.com"
	user.RPCs = []string{"http://localhost:8545"}
	user.Chains = []Chain{{
		Chain:          "mainnet",
		ChainID:        1,
		Symbol:         "ETH",
		RemoteExplorer: "https://etherscan.io",
		RPCProviders:   []string{"http://localhost:8545"},
	}}
	if err := SaveUser(dir, user); err != nil {
		t.Fatalf("SaveUser returned error: %v", err)
	}

	loaded, err := LoadUser(dir)
	if err != nil {
		t.Fatalf("LoadUser returned error: %v", err)
	}
	if loaded.Name != "Ada" || loaded.Email != "ada@example.com" {
		t.Fatalf("identity = %q/%q, want Ada/ada@example.com", loaded.Name, loaded.Email)
	}
	if len(loaded.Chains) != 1 || loaded.Chains[0].ChainID != 1 || loaded.Chains[0].RPCProviders[0] != "http://localhost:8545" {
		t.Fatalf("Chains = %+v, want mainnet/1", loaded.Chains)
	}
}

func TestSaveApp_PersistsLastTabs(t *testing.T) {
	dir := t.TempDir()
	app := DefaultApp()
	app.LastTab["/data"] = "logs"
	app.LastViewNoWizard = "/names"
	app.Initialized = true
	if err := SaveApp(dir, app); err != nil {
		t.Fatalf("SaveApp returned error: %v", err)
	}

	loaded, err := LoadApp(dir)
	if err != nil {
		t.Fatalf("LoadApp returned error: %v", err)
	}
	if loaded.LastTab["/data"] != "logs" {
		t.Fatalf("LastTab[/data] = %q, want logs", loaded.LastTab["/data"])
	}
	if loaded.LastViewNoWizard != "/names" || !loaded.Initialized {
		t.Fatalf("loaded = %+v, want /names initialized", loaded)
	}
}

func TestLoad_InvalidTOMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, userFile), []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	user, err := LoadUser(dir)
	if err == nil {
		t.Fatal("LoadUser returned nil error for malformed file")
	}
	if user.Version != "1.0" {
		t.Fatalf("LoadUser on error = %+v, want defaults", user)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	u := User{RPCs: []string{"a"}, Chains: []Chain{{RPCProviders: []string{"x"}}}}
	c := u.Clone()
	c.RPCs[0] = "b"
	c.Chains[0].RPCProviders[0] = "y"
	if u.RPCs[0] != "a" || u.Chains[0].RPCProviders[0] != "x" {
		t.Fatalf("User.Clone shares storage: %+v", u)
	}

	a := DefaultApp()
	a.LastTab["/"] = "one"
	ac := a.Clone()
	ac.LastTab["/"] = "two"
	if a.LastTab["/"] != "one" {
		t.Fatalf("App.Clone shares LastTab map")
	}
}
