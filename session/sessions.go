package session

import (
	"strings"
	"time"

	"nextvision/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

const TokenExpiration = 24 * time.Hour

var TokenCache = cache.New(TokenExpiration, 1*time.Minute)

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

const KeySecCtx = "SecCtx"
const KeySecToken = "sec_token"

// ExtractSessionFromGinContext returns the session injected by the auth
// filter, or an anonymous session bound to the request context.
func ExtractSessionFromGinContext(ctx *gin.Context) *Session {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return &Session{Context: ctx.Request.Context()}
	}
	s0, ok := value.(*Session)
	if !ok || s0.Token == "" {
		return &Session{Context: ctx.Request.Context()}
	}
	s := s0.Clone()
	s.Context = ctx.Request.Context() // trace context
	return &s
}

// SimpleAuthFilter resolves the principal from the session cookie or a bearer
// token. Cache misses fall back to token verification, so a restarted
// instance still accepts previously issued tokens.
func SimpleAuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := extractToken(ctx)
		if token == "" {
			panic(bizerror.ErrUnauthenticated)
		}
		if value, found := TokenCache.Get(token); found {
			if secCtx, ok := value.(*Session); ok {
				InjectSessionIntoGinContext(ctx, secCtx)
				ctx.Next()
				return
			}
		}
		secCtx, err := VerifySessionToken(token)
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		TokenCache.Set(token, secCtx, cache.DefaultExpiration)
		InjectSessionIntoGinContext(ctx, secCtx)
		ctx.Next()
	}
}

func InjectSessionIntoGinContext(ctx *gin.Context, secCtx *Session) {
	if secCtx != nil && secCtx.Token != "" {
		ctx.Set(KeySecCtx, secCtx)
	}
}

func extractToken(ctx *gin.Context) string {
	if token, err := ctx.Cookie(KeySecToken); err == nil && token != "" {
		return token
	}
	authorization := ctx.GetHeader("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}
	return ""
}
