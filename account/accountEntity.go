package account

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

type User struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	Name     string   `json:"name" gorm:"unique_index"`
	Nickname string   `json:"nickname"`
	Secret   string   `json:"-"`
	Role     string   `json:"role"`

	CreateTime time.Time `json:"createTime"`
}

func (User) TableName() string {
	return "users"
}

type UserInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	Role     string   `json:"role"`
}

func (u *UserInfo) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

type UserCreation struct {
	Name     string `json:"name" validate:"required"`
	Nickname string `json:"nickname"`
	Secret   string `json:"secret" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin editor"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret" validate:"required"`
	NewSecret      string `json:"newSecret" validate:"required,min=6"`
}
