// Package server wires the askgate routes and middleware into an
// http.Server and manages its lifecycle.
//
// # Routes
//
//   - POST /api/ask: the question endpoint
//   - GET /health: unconditional liveness
//   - GET /ready: readiness (credential and model list)
//   - GET <metrics path>: Prometheus exposition, when metrics are enabled
//   - /: static front-end files, when server.static_dir is set
//
// # Basic Usage
//
//	srv := server.NewServer(&cfg.Server, server.Routes{
//	    Ask:    askHandler,
//	    Health: handlers.NewHealthHandler(),
//	    Ready:  checker.ReadinessHandler(),
//	}, server.WithRequestRecorder(collector), server.WithTracing(tracer.Middleware))
//
//	ctx := cli.SetupSignalHandler()
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled and then drains in-flight requests for
// up to server.shutdown_timeout.
package server
