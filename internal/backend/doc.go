// Package backend is the shell's collaborator: preference records, operator
// identity, RPC configuration and probing, first-run state, layout memory,
// help content and the diagnostic log sink.
//
// Service is the in-process implementation backed by TOML files in the
// preferences directory. Server exposes a Service over HTTP (gorilla/mux) so a
// long-running `deskshell serve` can own the files, and Client talks to that
// server. All three are used through the Backend interface.
//
// # Endpoints
//
//	GET|PUT  /api/prefs/{org,user,app}
//	PUT      /api/user/info        {"name","email"}
//	PUT      /api/rpc              {"url"}
//	GET      /api/rpc/status       {"ok"}
//	GET      /api/wizard           WizardState
//	POST     /api/wizard/reset
//	GET      /api/wizard/return    {"route"}
//	GET|PUT  /api/initialized      {"value"}
//	PUT      /api/panels/{menu,help} {"value"}
//	PUT      /api/view             {"route"}
//	GET|PUT  /api/tabs             ?route= / {"route","tab"}
//	GET      /api/markdown         ?lang=&route=&tab=
//	POST     /api/log              {"message"}
//
// Validation failures come back as 400 with {"field","error"} and are turned
// back into *validation.Error by the Client.
package backend
