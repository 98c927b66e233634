package session

import (
	"context"
	"time"

	"github.com/fundwit/go-commons/types"
)

type Identity struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}

// Session is the resolved principal of one request. Context carries the
// request-scoped trace context and is never serialized.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
	Role     string   `json:"role"`

	SigningTime time.Time       `json:"-"`
	Context     context.Context `json:"-"`
}

func (s *Session) Clone() Session {
	return Session{Token: s.Token, Identity: s.Identity, Role: s.Role, SigningTime: s.SigningTime}
}

// Authenticated reports whether the session resolves to a real principal.
func (s *Session) Authenticated() bool {
	return s != nil && s.Identity.ID != 0
}
