// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

/*
Package supervisor runs the server's long-lived services under a suture
v4 supervision tree with slog-backed event logging.

The tree restarts a crashed service with exponential backoff and shuts
everything down in order when the root context is canceled. For this
application the only supervised service is the HTTP listener, wrapped
by HTTPServerService, which adapts http.Server's blocking
ListenAndServe to suture's context-aware Serve contract and performs a
bounded graceful Shutdown on cancellation.

	tree := supervisor.NewTree(logger, supervisor.DefaultConfig())
	tree.Add(supervisor.NewHTTPServerService(srv, 10*time.Second))
	err := tree.Serve(ctx)

Serve blocks until the context is canceled or the tree gives up
restarting a persistently failing service.
*/
package supervisor
