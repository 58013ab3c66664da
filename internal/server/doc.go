// Package server provides the HTTP server of the jobgraph status API.
//
// The server uses the Gin web framework. It is optional: the run command
// starts it only when a status address is configured.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.Ginzap (request/response logging)               │  │
//	│  │  ginzap.RecoveryWithZap (panic recovery with zap)       │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  GET /health                                                  │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// ServerMode "dev" runs Gin in debug mode, "prod" in release mode. Unknown
// routes answer with a JSON 404 in both modes.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, handlers.New(wp, runner))
//	})
//	if err != nil {
//	    return err
//	}
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	        zap.S().Errorw("status api stopped", "error", err)
//	    }
//	}()
//
//	// Graceful shutdown once the run is over
//	srv.Stop(ctx)
package server
