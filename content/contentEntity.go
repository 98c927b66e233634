package content

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Testimonial struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	Name     string   `json:"name"`
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Quote    string   `json:"quote" gorm:"type:text"`
	Rating   int      `json:"rating"`
	Featured bool     `json:"featured"`

	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

func (Testimonial) TableName() string {
	return "testimonials"
}

type TestimonialCreation struct {
	Name     string `json:"name" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Quote    string `json:"quote" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Featured bool   `json:"featured"`
}

type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

type ContactSubmission struct {
	ID      types.ID      `json:"id" gorm:"primary_key"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Company string        `json:"company"`
	Message string        `json:"message" gorm:"type:text"`
	Status  ContactStatus `json:"status"`

	CreateTime time.Time `json:"createTime"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

type ContactCreation struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Message string `json:"message" validate:"required"`
}

type ContactStatusUpdating struct {
	Status ContactStatus `json:"status" validate:"required"`
}
