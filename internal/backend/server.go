package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/trueblocks/deskshell/internal/logging"
	"github.com/trueblocks/deskshell/internal/prefs"
	"github.com/trueblocks/deskshell/internal/validation"
)

// Server exposes a Backend over HTTP.
type Server struct {
	*http.Server
	Router *mux.Router

	backend Backend
	log     *log.Logger
}

type errorBody struct {
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}

type boolBody struct {
	Value bool `json:"value"`
}

type routeBody struct {
	Route string `json:"route"`
}

type tabBody struct {
	Route string `json:"route"`
	Tab   string `json:"tab"`
}

type identityBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type rpcBody struct {
	URL string `json:"url"`
}

type statusBody struct {
	OK bool `json:"ok"`
}

type markdownBody struct {
	Content string `json:"content"`
}

type logBody struct {
	Message string `json:"message"`
}

// NewServer returns a Server listening on addr once started.
func NewServer(addr string, b Backend, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	srv := &Server{
		Router:  mux.NewRouter(),
		backend: b,
		log:     logger,
	}
	srv.routes()
	srv.Server = &http.Server{
		Addr:         addr,
		Handler:      srv.Router,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

func (ws *Server) routes() {
	r := ws.Router.PathPrefix("/api").Subrouter()

	r.HandleFunc("/prefs/org", ws.getOrg).Methods(http.MethodGet)
	r.HandleFunc("/prefs/org", ws.putOrg).Methods(http.MethodPut)
	r.HandleFunc("/prefs/user", ws.getUser).Methods(http.MethodGet)
	r.HandleFunc("/prefs/user", ws.putUser).Methods(http.MethodPut)
	r.HandleFunc("/prefs/app", ws.getApp).Methods(http.MethodGet)
	r.HandleFunc("/prefs/app", ws.putApp).Methods(http.MethodPut)

	r.HandleFunc("/user/info", ws.putUserInfo).Methods(http.MethodPut)
	r.HandleFunc("/rpc", ws.putRPC).Methods(http.MethodPut)
	r.HandleFunc("/rpc/status", ws.getRPCStatus).Methods(http.MethodGet)

	r.HandleFunc("/wizard", ws.getWizardState).Methods(http.MethodGet)
	r.HandleFunc("/wizard/reset", ws.postWizardReset).Methods(http.MethodPost)
	r.HandleFunc("/wizard/return", ws.getWizardReturn).Methods(http.MethodGet)
	r.HandleFunc("/initialized", ws.getInitialized).Methods(http.MethodGet)
	r.HandleFunc("/initialized", ws.putInitialized).Methods(http.MethodPut)

	r.HandleFunc("/panels/{panel:menu|help}", ws.putPanel).Methods(http.MethodPut)
	r.HandleFunc("/view", ws.putView).Methods(http.MethodPut)
	r.HandleFunc("/tabs", ws.getTab).Methods(http.MethodGet)
	r.HandleFunc("/tabs", ws.putTab).Methods(http.MethodPut)

	r.HandleFunc("/markdown", ws.getMarkdown).Methods(http.MethodGet)
	r.HandleFunc("/log", ws.postLog).Methods(http.MethodPost)
}

// Start runs ListenAndServe in a goroutine and returns.
func (ws *Server) Start() {
	go func() {
		if err := ws.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ws.log.Error("backend server stopped", "err", err)
		}
	}()
}

// Stop gracefully shuts the server down.
func (ws *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ws.Shutdown(ctx); err != nil {
		ws.log.Warn("backend shutdown", "err", err)
	}
}

func (ws *Server) getOrg(w http.ResponseWriter, r *http.Request) {
	org, err := ws.backend.GetOrgPreferences(r.Context())
	ws.reply(w, org, err)
}

func (ws *Server) putOrg(w http.ResponseWriter, r *http.Request) {
	var org prefs.Org
	if !ws.decode(w, r, &org) {
		return
	}
	ws.reply(w, nil, ws.backend.SetOrgPreferences(r.Context(), org))
}

func (ws *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := ws.backend.GetUserPreferences(r.Context())
	ws.reply(w, user, err)
}

func (ws *Server) putUser(w http.ResponseWriter, r *http.Request) {
	var user prefs.User
	if !ws.decode(w, r, &user) {
		return
	}
	ws.reply(w, nil, ws.backend.SetUserPreferences(r.Context(), user))
}

func (ws *Server) getApp(w http.ResponseWriter, r *http.Request) {
	app, err := ws.backend.GetAppPreferences(r.Context())
	ws.reply(w, app, err)
}

func (ws *Server) putApp(w http.ResponseWriter, r *http.Request) {
	var app prefs.App
	if !ws.decode(w, r, &app) {
		return
	}
	ws.reply(w, nil, ws.backend.SetAppPreferences(r.Context(), app))
}

func (ws *Server) putUserInfo(w http.ResponseWriter, r *http.Request) {
	var body identityBody
	if !ws.decode(w, r, &body) {
		return
	}
	ws.reply(w, nil, ws.backend.SetUserInfo(r.Context(), body.Name, body.Email))
}

func (ws *Server) putRPC(w http.ResponseWriter, r *http.Request) {
	var body rpcBody
	if !ws.decode(w, r, &body) {
		return
	}
	ws.reply(w, nil, ws.backend.SetRPC(r.Context(), body.URL))
}

func (ws *Server) getRPCStatus(w http.ResponseWriter, r *http.Request) {
	ok, err := ws.backend.CheckRPCStatus(r.Context())
	ws.reply(w, statusBody{OK: ok}, err)
}

func (ws *Server) getWizardState(w http.ResponseWriter, r *http.Request) {
	state, err := ws.backend.GetWizardState(r.Context())
	ws.reply(w, state, err)
}

func (ws *Server) postWizardReset(w http.ResponseWriter, r *http.Request) {
	ws.reply(w, nil, ws.backend.ResetWizardState(r.Context()))
}

func (ws *Server) getWizardReturn(w http.ResponseWriter, r *http.Request) {
	route, err := ws.backend.GetWizardReturn(r.Context())
	ws.reply(w, routeBody{Route: route}, err)
}

func (ws *Server) getInitialized(w http.ResponseWriter, r *http.Request) {
	value, err := ws.backend.IsInitialized(r.Context())
	ws.reply(w, boolBody{Value: value}, err)
}

func (ws *Server) putInitialized(w http.ResponseWriter, r *http.Request) {
	var body boolBody
	if !ws.decode(w, r, &body) {
		return
	}
	ws.reply(w, nil, ws.backend.SetInitialized(r.Context(), body.Value))
}

func (ws *Server) putPanel(w http.ResponseWriter, r *http.Request) {
	var body boolBody
	if !ws.decode(w, r, &body) {
		return
	}
	var err error
	switch mux.Vars(r)["panel"] {
	case "menu":
		err = ws.backend.SetMenuCollapsed(r.Context(), body.Value)
	case "help":
		err = ws.backend.SetHelpCollapsed(r.Context(), body.Value)
	}
	ws.reply(w, nil, err)
}

func (ws *Server) putView(w http.ResponseWriter, r *http.Request) {
	var body routeBody
	if !ws.decode(w, r, &body) {
		return
	}
	ws.reply(w, nil, ws.backend.SetLastView(r.Context(), body.Route))
}

func (ws *Server) getTab(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("route")
	tab, err := ws.backend.GetLastTab(r.Context(), route)
	ws.reply(w, tabBody{Route: route, Tab: tab}, err)
}

func (ws *Server) putTab(w http.ResponseWriter, r *http.Request) {
	var body tabBody
	if !ws.decode(w, r, &body) {
		return
	}
	ws.reply(w, nil, ws.backend.SetLastTab(r.Context(), body.Route, body.Tab))
}

func (ws *Server) getMarkdown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	content, err := ws.backend.GetMarkdown(r.Context(), q.Get("lang"), q.Get("route"), q.Get("tab"))
	ws.reply(w, markdownBody{Content: content}, err)
}

func (ws *Server) postLog(w http.ResponseWriter, r *http.Request) {
	var body logBody
	if !ws.decode(w, r, &body) {
		return
	}
	ws.backend.Logger(body.Message)
	w.WriteHeader(http.StatusNoContent)
}

func (ws *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		ws.writeJSON(w, http.StatusBadRequest, errorBody{Error: "decode request: " + err.Error()})
		return false
	}
	return true
}

// reply writes payload, or maps err to a status code. A nil payload with no
// error answers 204.
func (ws *Server) reply(w http.ResponseWriter, payload any, err error) {
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			ws.writeJSON(w, http.StatusBadRequest, errorBody{Field: verr.Field, Error: verr.Message})
			return
		}
		ws.log.Error("backend request failed", "err", err)
		ws.writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	if payload == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ws.writeJSON(w, http.StatusOK, payload)
}

func (ws *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		ws.log.Warn("encode response", "err", err)
	}
}
