package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CSRFCookieName carries the double-submit token.
const CSRFCookieName = "csrf_token"

// CSRFFieldName is the form field templates must echo back on mutating requests.
const CSRFFieldName = "csrf_token"

// ContextCSRFTokenKey carries the token for the current request, including one
// minted during this request that the request cookie cannot know yet.
const ContextCSRFTokenKey = "csrf_token_value"

// CSRF implements double-submit cookie protection for form posts. Safe methods
// receive a token cookie; mutating methods must echo it in a form field or the
// X-CSRF-Token header, otherwise the dedicated 403 page is rendered.
func CSRF() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token, err := ctx.Cookie(CSRFCookieName)
			if err != nil || token == "" {
				token = newCSRFToken()
				ctx.SetSameSite(http.SameSiteLaxMode)
				ctx.SetCookie(CSRFCookieName, token, 0, "/", "", false, false)
			}
			ctx.Set(ContextCSRFTokenKey, token)
			ctx.Next()
			return
		}

		cookie, err := ctx.Cookie(CSRFCookieName)
		if err != nil || cookie == "" {
			renderCSRFFailure(ctx)
			return
		}

		submitted := ctx.PostForm(CSRFFieldName)
		if submitted == "" {
			submitted = ctx.GetHeader("X-CSRF-Token")
		}
		if subtle.ConstantTimeCompare([]byte(cookie), []byte(submitted)) != 1 {
			renderCSRFFailure(ctx)
			return
		}

		ctx.Set(ContextCSRFTokenKey, cookie)
		ctx.Next()
	}
}

func renderCSRFFailure(ctx *gin.Context) {
	ctx.HTML(http.StatusForbidden, "403csrf.html", gin.H{})
	ctx.Abort()
}

func newCSRFToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is unrecoverable for token issuance
		panic(err)
	}
	return hex.EncodeToString(buf)
}
