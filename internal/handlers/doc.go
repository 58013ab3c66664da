// Package handlers implements the status API of jobgraph.
//
// Handlers are read only: they report the state of the worker pool and of
// the client running on it. They never submit jobs.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Parameter binding                                            │
//	│  - Error mapping to HTTP status codes                           │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│   scheduler.WorkerPool (Stats)   │   services.Runner (Status)   │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
// Routes are registered under /api/v1 by RegisterHandlers:
//
//	┌────────┬───────────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint              │ Description                          │
//	├────────┼───────────────────────┼──────────────────────────────────────┤
//	│ GET    │ /pool                 │ Pool stats, one entry per worker     │
//	│ GET    │ /pool/workers/:index  │ Stats of one worker                  │
//	│ GET    │ /run                  │ Mode and state of the running client │
//	└────────┴───────────────────────┴──────────────────────────────────────┘
//
// # Error Handling
//
//	┌──────────────────────────┬─────────────┐
//	│ Condition                │ HTTP Status │
//	├──────────────────────────┼─────────────┤
//	│ Invalid worker index     │ 400         │
//	│ Unknown worker           │ 404         │
//	│ No client configured     │ 404         │
//	└──────────────────────────┴─────────────┘
//
// Error bodies have the form:
//
//	{"error": "worker not found"}
package handlers
