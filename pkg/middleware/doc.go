// Package middleware provides the small stack of HTTP middleware cmd/server
// wraps its handler in: request logging, per-client rate limiting, request
// body size limiting, and request timeout enforcement.
//
// # Overview
//
// Every Middleware has the signature func(http.Handler) http.Handler, the
// same convention chi.Router.Use expects, so the stack composes directly:
//
//	r := chi.NewRouter()
//	r.Use(
//		middleware.Timeout(middleware.DefaultRequestTimeout),
//		middleware.SizeLimit(middleware.DefaultMaxRequestBodySize),
//		middleware.RateLimit(50, 100),
//		middleware.Logging(logger),
//	)
//
// Chain composes a slice of Middleware into one, for call sites that build
// the stack from a config rather than literal Use calls:
//
//	stack := middleware.Chain(
//		middleware.Timeout(cfg.RequestTimeout),
//		middleware.SizeLimit(cfg.MaxBodyBytes),
//	)
//	http.ListenAndServe(addr, stack(handler))
//
// # Rejections
//
// RateLimit and a SizeLimit-wrapped body both report failure as a
// flowerr.FlowError (ResourceLimit), written through the same JSON error
// envelope and status mapping (flowerr.HTTPStatus) as every other domain
// error the reference HTTP binding returns, so a caller never has to
// distinguish a throttled request from a walk that failed deeper in the
// call stack.
//
// # What moved here from node-level middleware
//
// A prior version of this package wrapped individual node executions inside
// a workflow DAG (Process(ctx, node, next) (interface{}, error)). None of
// that survives once node/workflow execution is replaced by a single Walk
// call per request: there is exactly one "node" worth protecting per
// request, namely the request itself, so the concerns that still apply
// (logging, rate limiting, size limiting, timeouts) are rebuilt at the HTTP
// layer instead. Node-level retry and generic input-validation middleware
// have no HTTP-layer analogue and were dropped: retry belongs to the Graph
// Gateway (which already retries transient storage failures), and request
// validation belongs in cmd/server's handler, which knows the shape of a
// WalkRequest.
package middleware
