package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextSessionTokenKey stores the raw session token for logout revocation.
	ContextSessionTokenKey = "session_token"

	// LoginURL is where unauthenticated requests to guarded routes are sent.
	LoginURL = "/auth/login/"
)

// CurrentUser resolves the session cookie into request identity when present.
// It never aborts; anonymous requests simply carry no identity.
func CurrentUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(utils.SessionCookieName)
		if err != nil || token == "" {
			ctx.Next()
			return
		}

		if utils.IsSessionRevoked(token) {
			ctx.Next()
			return
		}

		claims, err := utils.ParseSessionToken(token)
		if err != nil {
			ctx.Next()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextSessionTokenKey, token)
		ctx.Next()
	}
}

// LoginRequired redirects anonymous requests to the login page before the
// handler body runs. It assumes CurrentUser already ran.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, exists := ctx.Get(ContextUserIDKey); !exists {
			ctx.Redirect(http.StatusFound, LoginURL)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// UserID returns the authenticated user ID from context.
func UserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// Username returns the authenticated username from context.
func Username(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(ContextUsernameKey)
	if !exists {
		return "", false
	}
	name, ok := value.(string)
	return name, ok
}
