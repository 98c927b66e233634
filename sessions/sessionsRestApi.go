package sessions

import (
	"net/http"
	"time"

	"nextvision/account"
	"nextvision/bizerror"
	"nextvision/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
)

func RegisterSessionsHandler(r *gin.Engine) {
	handler := &sessionsHandler{validator: validator.New()}

	g := r.Group("/v1/sessions")
	g.POST("", handler.handleLogin)
	g.DELETE("", handler.handleLogout)

	r.GET("/v1/session", session.SimpleAuthFilter(), handler.handleCurrentSession)
}

type sessionsHandler struct {
	validator *validator.Validate
}

func (h *sessionsHandler) handleLogin(c *gin.Context) {
	login := session.LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(login); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	anonymous := session.ExtractSessionFromGinContext(c)
	identity, role, err := account.VerifyCredentialsFunc(login.Name, login.Password, anonymous)
	if err != nil {
		panic(err)
	}

	now := time.Now()
	token, err := session.SignSessionToken(*identity, role, now)
	if err != nil {
		panic(err)
	}

	securityContext := session.Session{Token: token, Identity: *identity, Role: role, SigningTime: now}
	session.TokenCache.Set(token, &securityContext, cache.DefaultExpiration)

	c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &securityContext)
}

func (h *sessionsHandler) handleLogout(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken) // ErrNoCookie
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

func (h *sessionsHandler) handleCurrentSession(c *gin.Context) {
	s := session.ExtractSessionFromGinContext(c)
	if !s.Authenticated() {
		panic(bizerror.ErrUnauthenticated)
	}
	c.JSON(http.StatusOK, s)
}
