package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// Wrap applies mws to h in order, so the last one runs first.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}

func WrapFunc(f http.HandlerFunc, mws ...Middleware) http.Handler {
	return Wrap(f, mws...)
}
