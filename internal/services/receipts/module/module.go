// Package module wires receipts into the API using modkit
package module

import (
	"net/http"

	modkit "receiptjar/internal/modkit"
	"receiptjar/internal/modkit/httpkit"
	str "receiptjar/internal/platform/strings"
	receiptshttp "receiptjar/internal/services/receipts/http"
	receiptsrepo "receiptjar/internal/services/receipts/repo"
	receiptssvc "receiptjar/internal/services/receipts/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc receiptssvc.Service
}

// New constructs a receipts module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("receipts"), modkit.WithPrefix("/")}, opts...)...)

	repo := receiptsrepo.New(deps.KV)
	log := deps.Log.With().Str("component", "receipts").Logger()
	svc := receiptssvc.New(repo, log, FromConfig(deps.Cfg))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptReceiptsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		receiptshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
// receipts is root mounted so it uses Group instead of Route to avoid
// claiming the "/" pattern from other root modules
func (m *Module) MountRoutes(r httpkit.Router) {
	mount := func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	}
	if m.prefix == "" || m.prefix == "/" {
		r.Group(mount)
		return
	}
	r.Route(m.prefix, mount)
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string {
	if m.prefix == "" || m.prefix == "/" {
		return "/"
	}
	return str.MustPrefix(m.prefix)
}

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
