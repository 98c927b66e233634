package sessions_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"nextvision/account"
	"nextvision/bizerror"
	"nextvision/config"
	"nextvision/session"
	"nextvision/sessions"
	"nextvision/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("SessionsHandler", func() {
	var router *gin.Engine

	BeforeEach(func() {
		config.Service = config.ServiceConfig{JwtSecret: "test-secret", JwtIssuer: "nextvision", JwtExpire: time.Hour}
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		sessions.RegisterSessionsHandler(router)
	})

	AfterEach(func() {
		account.VerifyCredentialsFunc = account.VerifyCredentials
		session.TokenCache.Flush()
	})

	Describe("handleLogin", func() {
		It("should issue a token for valid credentials", func() {
			account.VerifyCredentialsFunc = func(name, secret string, s *session.Session) (*session.Identity, string, error) {
				Expect(name).To(Equal("ann"))
				Expect(secret).To(Equal("ann-secret"))
				return &session.Identity{ID: types.ID(100), Name: "ann", Nickname: "Ann"}, account.RoleEditor, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/sessions",
				bytes.NewReader([]byte(`{"name":"ann","password":"ann-secret"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))

			issued := session.Session{}
			Expect(json.Unmarshal([]byte(body), &issued)).To(BeNil())
			Expect(issued.Token).ToNot(BeEmpty())
			Expect(issued.Identity).To(Equal(session.Identity{ID: types.ID(100), Name: "ann", Nickname: "Ann"}))
			Expect(issued.Role).To(Equal(account.RoleEditor))

			verified, err := session.VerifySessionToken(issued.Token)
			Expect(err).To(BeNil())
			Expect(verified.Identity.ID).To(Equal(types.ID(100)))
		})

		It("should return 401 for bad credentials", func() {
			account.VerifyCredentialsFunc = func(name, secret string, s *session.Session) (*session.Identity, string, error) {
				return nil, "", bizerror.ErrUnauthenticated
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions",
				bytes.NewReader([]byte(`{"name":"ann","password":"wrong"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusUnauthorized))
			Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))
		})

		It("should return 400 when validate failed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte(`{}`)))
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("handleLogout", func() {
		It("should drop the cached session", func() {
			req := httptest.NewRequest(http.MethodDelete, "/v1/sessions", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNoContent))
			Expect(body).To(BeEmpty())
		})
	})

	Describe("handleCurrentSession", func() {
		It("should return the principal behind a bearer token", func() {
			account.VerifyCredentialsFunc = func(name, secret string, s *session.Session) (*session.Identity, string, error) {
				return &session.Identity{ID: types.ID(100), Name: "ann"}, account.RoleEditor, nil
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions",
				bytes.NewReader([]byte(`{"name":"ann","password":"ann-secret"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			issued := session.Session{}
			Expect(json.Unmarshal([]byte(body), &issued)).To(BeNil())

			req = httptest.NewRequest(http.MethodGet, "/v1/session", nil)
			req.Header.Set("Authorization", "Bearer "+issued.Token)
			status, body, _ = testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))

			current := session.Session{}
			Expect(json.Unmarshal([]byte(body), &current)).To(BeNil())
			Expect(current.Identity.ID).To(Equal(types.ID(100)))
		})

		It("should return 401 without a token", func() {
			req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
			status, _, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusUnauthorized))
		})
	})
})
