package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trueblocks/deskshell/internal/prefs"
	"github.com/trueblocks/deskshell/internal/validation"
)

// Client talks to a Server over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7488"
	defaultUserAgent = "deskshell/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

func (c *Client) GetOrgPreferences(ctx context.Context) (prefs.Org, error) {
	var org prefs.Org
	err := c.do(ctx, http.MethodGet, "/api/prefs/org", nil, &org)
	return org, err
}

func (c *Client) SetOrgPreferences(ctx context.Context, org prefs.Org) error {
	return c.do(ctx, http.MethodPut, "/api/prefs/org", org, nil)
}

func (c *Client) GetUserPreferences(ctx context.Context) (prefs.User, error) {
	var user prefs.User
	err := c.do(ctx, http.MethodGet, "/api/prefs/user", nil, &user)
	return user, err
}

func (c *Client) SetUserPreferences(ctx context.Context, user prefs.User) error {
	return c.do(ctx, http.MethodPut, "/api/prefs/user", user, nil)
}

func (c *Client) GetAppPreferences(ctx context.Context) (prefs.App, error) {
	var app prefs.App
	err := c.do(ctx, http.MethodGet, "/api/prefs/app", nil, &app)
	if app.LastTab == nil {
		app.LastTab = map[string]string{}
	}
	return app, err
}

func (c *Client) SetAppPreferences(ctx context.Context, app prefs.App) error {
	return c.do(ctx, http.MethodPut, "/api/prefs/app", app, nil)
}

func (c *Client) SetUserInfo(ctx context.Context, name, email string) error {
	return c.do(ctx, http.MethodPut, "/api/user/info", identityBody{Name: name, Email: email}, nil)
}

func (c *Client) SetRPC(ctx context.Context, rpc string) error {
	return c.do(ctx, http.MethodPut, "/api/rpc", rpcBody{URL: rpc}, nil)
}

func (c *Client) CheckRPCStatus(ctx context.Context) (bool, error) {
	var body statusBody
	err := c.do(ctx, http.MethodGet, "/api/rpc/status", nil, &body)
	return body.OK, err
}

func (c *Client) GetWizardState(ctx context.Context) (WizardState, error) {
	var state WizardState
	err := c.do(ctx, http.MethodGet, "/api/wizard", nil, &state)
	return state, err
}

func (c *Client) SetInitialized(ctx context.Context, initialized bool) error {
	return c.do(ctx, http.MethodPut, "/api/initialized", boolBody{Value: initialized}, nil)
}

func (c *Client) IsInitialized(ctx context.Context) (bool, error) {
	var body boolBody
	err := c.do(ctx, http.MethodGet, "/api/initialized", nil, &body)
	return body.Value, err
}

func (c *Client) ResetWizardState(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/wizard/reset", nil, nil)
}

func (c *Client) SetMenuCollapsed(ctx context.Context, collapsed bool) error {
	return c.do(ctx, http.MethodPut, "/api/panels/menu", boolBody{Value: collapsed}, nil)
}

func (c *Client) SetHelpCollapsed(ctx context.Context, collapsed bool) error {
	return c.do(ctx, http.MethodPut, "/api/panels/help", boolBody{Value: collapsed}, nil)
}

func (c *Client) SetLastView(ctx context.Context, route string) error {
	return c.do(ctx, http.MethodPut, "/api/view", routeBody{Route: route}, nil)
}

func (c *Client) GetWizardReturn(ctx context.Context) (string, error) {
	var body routeBody
	err := c.do(ctx, http.MethodGet, "/api/wizard/return", nil, &body)
	return body.Route, err
}

func (c *Client) SetLastTab(ctx context.Context, route, tab string) error {
	return c.do(ctx, http.MethodPut, "/api/tabs", tabBody{Route: route, Tab: tab}, nil)
}

func (c *Client) GetLastTab(ctx context.Context, route string) (string, error) {
	values := url.Values{}
	values.Set("route", route)
	var body tabBody
	err := c.doURL(ctx, http.MethodGet, &url.URL{Path: "/api/tabs", RawQuery: values.Encode()}, nil, &body)
	return body.Tab, err
}

func (c *Client) GetMarkdown(ctx context.Context, lang, route, tab string) (string, error) {
	values := url.Values{}
	if lang = strings.TrimSpace(lang); lang != "" {
		values.Set("lang", lang)
	}
	values.Set("route", route)
	if tab = strings.TrimSpace(tab); tab != "" {
		values.Set("tab", tab)
	}
	var body markdownBody
	err := c.doURL(ctx, http.MethodGet, &url.URL{Path: "/api/markdown", RawQuery: values.Encode()}, nil, &body)
	return body.Content, err
}

// Logger posts msg in the background and ignores the outcome.
func (c *Client) Logger(msg string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_ = c.do(ctx, http.MethodPost, "/api/log", logBody{Message: msg}, nil)
	}()
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var failure errorBody
		if resp.StatusCode == http.StatusBadRequest && json.NewDecoder(resp.Body).Decode(&failure) == nil && failure.Field != "" {
			return &validation.Error{Field: failure.Field, Message: failure.Error}
		}
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
