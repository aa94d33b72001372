// Package api provides the HTTP API for the application
package api

import (
	stdhttp "net/http"

	"receiptjar/internal/platform/config"
	perr "receiptjar/internal/platform/errors"
	"receiptjar/internal/platform/kv"
	"receiptjar/internal/platform/logger"
	phttp "receiptjar/internal/platform/net/http"

	"receiptjar/internal/modkit"
	"receiptjar/internal/modkit/httpkit"
	"receiptjar/internal/modkit/module"
	"receiptjar/internal/modkit/swaggerkit"

	metamod "receiptjar/internal/services/api/meta/module"
	receiptsmod "receiptjar/internal/services/receipts/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	KV     kv.Store
	Logger *logger.Logger

	// APIKey enables key auth when non empty
	APIKey string

	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	log := opt.Logger
	if log == nil {
		log = logger.Get()
	}

	// shared deps for modules
	deps := modkit.Deps{
		Log: *log,
		Cfg: opt.Config,
		KV:  opt.KV,
	}

	// baseline stack applies to every route including the fallthrough
	// handlers below, so 404s still carry CORS headers
	r.Use(httpkit.CommonStack()...)

	// Swagger + profiler stay outside auth
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// health, readiness and version stay reachable without a key so
	// probes and balancers never need credentials
	meta := metamod.New(deps)
	module.Register(meta.Name(), meta.Ports())
	meta.MountRoutes(r)

	r.Group(func(api httpkit.Router) {
		if port := httpkit.NewAPIKey(opt.APIKey); port != nil {
			api.Use(httpkit.Auth(port))
		}

		for _, m := range []module.Module{receiptsmod.New(deps)} {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	// any OPTIONS answers 204, everything else unmatched answers the
	// JSON not_found envelope, method mismatches included
	r.NotFound(fallthrough404)
	r.MethodNotAllowed(fallthrough404)
}

// fallthrough404 writes the unknown-route envelope, short-circuiting bare
// OPTIONS probes with an empty 204 the way preflight responses look
func fallthrough404(w stdhttp.ResponseWriter, req *stdhttp.Request) {
	if req.Method == stdhttp.MethodOptions {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}
	phttp.JSON(w, stdhttp.StatusNotFound, phttp.Envelope{
		OK:      false,
		Code:    perr.ErrorCodeNotFound,
		Message: "not found",
	})
}
