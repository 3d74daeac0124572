package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/geocurator/internal/workspace"
)

const (
	// CtxSessionIDKey holds the browser session id.
	CtxSessionIDKey = "session_id"
	// CtxWorkspaceKey holds the session's *workspace.Controller.
	CtxWorkspaceKey = "workspace"
)

// SessionCookie describes the cookie carrying the session id.
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Session attaches the caller's working set controller, issuing a new session cookie
// when the presented one is missing or no longer known.
func Session(registry *workspace.Registry, cookie SessionCookie) gin.HandlerFunc {
	if cookie.Name == "" {
		cookie.Name = "geocurator_session"
	}
	return func(c *gin.Context) {
		presented, _ := c.Cookie(cookie.Name)
		ctrl, id := registry.Acquire(presented)
		if id != presented {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookie.Name, id, int(cookie.MaxAge.Seconds()), "/", "", cookie.Secure, true)
		}

		c.Set(CtxSessionIDKey, id)
		c.Set(CtxWorkspaceKey, ctrl)
		c.Next()
	}
}

// WorkspaceFrom returns the controller attached by Session.
func WorkspaceFrom(c *gin.Context) (*workspace.Controller, bool) {
	value, ok := c.Get(CtxWorkspaceKey)
	if !ok {
		return nil, false
	}
	ctrl, ok := value.(*workspace.Controller)
	return ctrl, ok && ctrl != nil
}
