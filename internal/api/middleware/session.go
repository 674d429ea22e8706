package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workshophub/portal/internal/core/domain"
	"github.com/workshophub/portal/internal/core/ports"
)

// SessionCookie is the cookie carrying the visitor's session id.
const SessionCookie = "portal_sid"

const (
	ctxSession   = "session"
	ctxSessionID = "session_id"
)

// Session resolves the visitor's session id cookie, issuing one when absent,
// and loads the stored session into the echo context. A token whose expiry
// has already passed is downgraded to guest for this request only; the
// stored session is left untouched, the backend decides whether it is
// really dead. A store read failure likewise degrades to guest instead of
// failing the request or clearing anything.
func Session(store ports.SessionStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionID(c)

			session, err := store.Get(c.Request().Context(), sid)
			if err != nil {
				log.Warn().Err(err).Msg("session read failed, treating visitor as guest")
				session = domain.Session{}
			}
			if session.Expired(time.Now()) {
				session = domain.Session{}
			}

			c.Set(ctxSessionID, sid)
			c.Set(ctxSession, session)
			return next(c)
		}
	}
}

// sessionID returns the cookie value, minting and setting a fresh id when
// the visitor has none yet.
func sessionID(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// SessionFrom returns the session loaded by the Session middleware.
// Without the middleware it returns a guest session.
func SessionFrom(c echo.Context) domain.Session {
	session, _ := c.Get(ctxSession).(domain.Session)
	return session
}

// SessionIDFrom returns the session id resolved by the Session middleware.
func SessionIDFrom(c echo.Context) string {
	sid, _ := c.Get(ctxSessionID).(string)
	return sid
}
