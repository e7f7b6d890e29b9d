package router

import (
	"context"
	"net/http"

	"github.com/questx-lab/classroom/config"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)
type WebsocketHandlerFunc[Request any] func(ctx context.Context, req *Request) error

// MiddlewareFunc runs before the handler. The returned context, if not nil,
// replaces the context of the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler, even if the handler failed.
type CloserFunc func(ctx context.Context)

type Router struct {
	ctx            context.Context
	allowedOrigins *[]string

	mux     *http.ServeMux
	befores []MiddlewareFunc
	closers []CloserFunc
}

// New returns a router whose handlers receive a context derived from ctx.
func New(ctx context.Context) *Router {
	return &Router{ctx: ctx, mux: http.NewServeMux(), allowedOrigins: &[]string{}}
}

// Branch returns a router sharing the routes of r. Middlewares added to the
// branch do not affect r.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:            r.ctx,
		mux:            r.mux,
		allowedOrigins: r.allowedOrigins,
		befores:        append([]MiddlewareFunc{}, r.befores...),
		closers:        append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler(cfg config.ServerConfigs) http.Handler {
	*r.allowedOrigins = cfg.AllowedOrigins
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, r.wrap(http.MethodGet, func(ctx context.Context) (any, error) {
		var req Request
		if err := bindQuery(xcontext.HTTPRequest(ctx), &req); err != nil {
			return nil, err
		}

		return handler(ctx, &req)
	}))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, r.wrap(http.MethodPost, func(ctx context.Context) (any, error) {
		var req Request
		if err := bindJSON(xcontext.HTTPRequest(ctx), &req); err != nil {
			return nil, err
		}

		return handler(ctx, &req)
	}))
}
