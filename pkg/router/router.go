package router

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ywitter/backend/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(context.Context, *Request) (*Response, error)

// MiddlewareFunc runs before the handler. A non-nil returned context replaces
// the request context, a non-nil error aborts the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, whether the request failed
// or not.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux    *mux.Router
	values context.Context

	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router. Every request context inherits the values of ctx, such
// as the database, the logger and the configurations.
func New(ctx context.Context) *Router {
	r := &Router{mux: mux.NewRouter(), values: ctx}
	r.mux.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return r
}

// Branch returns a router sharing the routes table, the following middlewares
// added to the branch don't affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		values:  r.values,
		befores: append([]MiddlewareFunc(nil), r.befores...),
		closers: append([]CloserFunc(nil), r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

// Handle registers a raw http.Handler, e.g. the metrics endpoint.
func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Methods(http.MethodGet).Path(pattern).Handler(wrap(r, parseQuery[Request], handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Methods(http.MethodPost).Path(pattern).Handler(wrap(r, parseBody[Request], handler))
}

// mergedContext keeps the cancellation of the request context while falling
// back to the router values.
type mergedContext struct {
	context.Context
	values context.Context
}

func (c mergedContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.values.Value(key)
}

func (r *Router) newContext(req *http.Request) context.Context {
	var ctx context.Context = mergedContext{Context: req.Context(), values: r.values}
	return xcontext.WithHTTPRequest(ctx, req)
}
