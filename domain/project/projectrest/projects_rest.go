package projectrest

import (
	"net/http"

	"nextvision/bizerror"
	"nextvision/domain"
	"nextvision/domain/project"
	"nextvision/indices"
	"nextvision/indices/search"
	"nextvision/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func RegisterProjectsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	handler := &projectsHandler{validator: validator.New()}

	// group: "", version: v1, resource: project
	g := r.Group("/v1/projects", middleWares...)
	g.GET("", handler.handleQuery)
	g.POST("", handler.handleCreate)
	g.GET("/stats", handler.handleStats)
	g.GET("/:id", handler.handleDetail)
	g.PUT("/:id", handler.handleUpdate)
	g.DELETE("/:id", handler.handleDelete)
	g.PATCH("/:id/progress", handler.handleUpdateProgress)

	sg := r.Group("/v1/project-search", middleWares...)
	sg.GET("", handler.handleSearch)
}

type projectsHandler struct {
	validator *validator.Validate
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(bizerror.BadParam("id", "invalid project id '"+c.Param("id")+"'"))
	}
	return id
}

func (h *projectsHandler) handleQuery(c *gin.Context) {
	query := domain.ProjectQuery{}
	_ = c.MustBindWith(&query, binding.Query)

	page, err := project.QueryProjectsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, page)
}

func (h *projectsHandler) handleCreate(c *gin.Context) {
	creation := domain.ProjectCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := project.CreateProjectFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *projectsHandler) handleDetail(c *gin.Context) {
	record, err := project.DetailProjectFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *projectsHandler) handleUpdate(c *gin.Context) {
	id := parseIdParam(c)

	updating := domain.ProjectUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := project.UpdateProjectFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *projectsHandler) handleDelete(c *gin.Context) {
	if err := project.DeleteProjectFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusNoContent, nil)
}

// handleUpdateProgress rejects out-of-range progress at the boundary; the
// manager clamps whatever reaches it.
func (h *projectsHandler) handleUpdateProgress(c *gin.Context) {
	id := parseIdParam(c)

	updating := domain.ProgressUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if updating.Progress == nil {
		panic(bizerror.BadParam("progress", "progress is required"))
	}
	if *updating.Progress < 0 || *updating.Progress > 100 {
		panic(bizerror.BadParam("progress", "progress must be between 0 and 100"))
	}

	record, err := project.UpdateProjectProgressFunc(id, *updating.Progress, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *projectsHandler) handleStats(c *gin.Context) {
	stats, err := project.FetchProjectStatsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, stats)
}

// handleSearch serves free text from the search index when configured and
// falls back to the SQL substring query otherwise.
func (h *projectsHandler) handleSearch(c *gin.Context) {
	query := domain.ProjectQuery{}
	_ = c.MustBindWith(&query, binding.Query)
	s := session.ExtractSessionFromGinContext(c)

	if indices.Enabled() {
		records, err := search.SearchProjectsFunc(&query, s)
		if err == nil {
			totalPages := 0
			if len(records) > 0 {
				totalPages = 1
			}
			c.JSON(http.StatusOK, &domain.ProjectPage{Data: records, Pagination: domain.Pagination{
				CurrentPage: 1, TotalPages: totalPages, TotalProjects: int64(len(records)),
			}})
			return
		}
		logrus.Warnf("project search index query failed, serving from store: %v", err)
	}

	page, err := project.QueryProjectsFunc(&query, s)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, page)
}
