package content

import (
	"net/http"

	"nextvision/bizerror"
	"nextvision/common"
	"nextvision/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterContentHandler mounts the public content surface and the
// authenticated management surface.
func RegisterContentHandler(r *gin.Engine, authFilter gin.HandlerFunc) {
	handler := &contentHandler{validator: validator.New()}

	testimonials := r.Group("/v1/testimonials")
	testimonials.GET("", handler.handleListTestimonials)
	testimonials.POST("", authFilter, handler.handleCreateTestimonial)
	testimonials.PUT("/:id", authFilter, handler.handleUpdateTestimonial)
	testimonials.DELETE("/:id", authFilter, handler.handleDeleteTestimonial)

	contacts := r.Group("/v1/contacts")
	contacts.POST("", handler.handleSubmitContact)
	contacts.GET("", authFilter, handler.handleListContacts)
	contacts.PATCH("/:id/status", authFilter, handler.handleUpdateContactStatus)
	contacts.DELETE("/:id", authFilter, handler.handleDeleteContact)
}

type contentHandler struct {
	validator *validator.Validate
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(bizerror.BadParam("id", "invalid id '"+c.Param("id")+"'"))
	}
	return id
}

func (h *contentHandler) handleListTestimonials(c *gin.Context) {
	records, err := ListTestimonialsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: records, Total: uint64(len(*records))})
}

func (h *contentHandler) handleCreateTestimonial(c *gin.Context) {
	creation := TestimonialCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := CreateTestimonialFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *contentHandler) handleUpdateTestimonial(c *gin.Context) {
	id := parseIdParam(c)

	updating := TestimonialCreation{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := UpdateTestimonialFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *contentHandler) handleDeleteTestimonial(c *gin.Context) {
	if err := DeleteTestimonialFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *contentHandler) handleSubmitContact(c *gin.Context) {
	creation := ContactCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := SubmitContactFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *contentHandler) handleListContacts(c *gin.Context) {
	records, err := ListContactsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: records, Total: uint64(len(*records))})
}

func (h *contentHandler) handleUpdateContactStatus(c *gin.Context) {
	id := parseIdParam(c)

	updating := ContactStatusUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := UpdateContactStatusFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *contentHandler) handleDeleteContact(c *gin.Context) {
	if err := DeleteContactFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusNoContent, nil)
}
