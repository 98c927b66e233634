package testinfra

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"nextvision/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// ExecuteRequest drives the router in process and returns status and body.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, error) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(body), nil
}

// BuildSession builds an authenticated session for manager-level tests.
func BuildSession(uid types.ID, role string) *session.Session {
	return &session.Session{
		Token:    "test-token-" + uid.String(),
		Identity: session.Identity{ID: uid, Name: "user" + uid.String(), Nickname: "User " + uid.String()},
		Role:     role,
		Context:  context.Background(),
	}
}

// InjectedSessionFilter bypasses token resolution in handler tests.
func InjectedSessionFilter(s *session.Session) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session.InjectSessionIntoGinContext(ctx, s)
		ctx.Next()
	}
}
