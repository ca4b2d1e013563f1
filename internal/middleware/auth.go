package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/boolmaze-server/internal/config"
)

type CtxKey int

const (
	CtxTicketClaims CtxKey = iota
)

// Auth puts the controller ticket, if any, into the request context. It
// never rejects a request; handlers decide what needs a ticket.
func Auth(log *logrus.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseTicketClaims(r)
			if err != nil {
				if !errors.Is(err, config.ErrNoTicket) {
					log.WithError(err).Debug("dropping invalid ticket")
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxTicketClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TicketClaims(ctx context.Context) (*config.TicketClaims, bool) {
	claims, ok := ctx.Value(CtxTicketClaims).(*config.TicketClaims)
	return claims, ok
}
