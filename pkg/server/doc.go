// Package server runs the textstudio HTTP API.
//
// The server mounts the API handlers, /health and /metrics on one ServeMux
// and wraps it in the middleware chain of package middleware. Start blocks
// until the context is cancelled, SIGINT/SIGTERM arrives, or the listener
// fails; shutdown is graceful within ServerConfig.ShutdownTimeout.
//
//	srv := server.New(cfg.Server, server.Dependencies{
//	    API:     api,
//	    Health:  checker,
//	    Metrics: collector,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// WriteTimeout must cover the slowest completion: the gateway applies no
// timeout of its own.
package server
