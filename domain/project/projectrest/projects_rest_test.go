package projectrest_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"nextvision/bizerror"
	"nextvision/client/es"
	"nextvision/domain"
	"nextvision/domain/project"
	"nextvision/domain/project/projectrest"
	"nextvision/indices/search"
	"nextvision/session"
	"nextvision/testinfra"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProjectsHandler", func() {
	var (
		router     *gin.Engine
		timestamp  time.Time
		timeString string
	)

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		projectrest.RegisterProjectsHandler(router, testinfra.InjectedSessionFilter(testinfra.BuildSession(100, "editor")))

		timestamp = time.Date(2026, 5, 1, 10, 0, 0, 0, time.Now().Location())
		timeBytes, err := timestamp.MarshalJSON()
		Expect(err).To(BeNil())
		timeString = strings.Trim(string(timeBytes), `"`)
	})

	AfterEach(func() {
		project.CreateProjectFunc = project.CreateProject
		project.QueryProjectsFunc = project.QueryProjects
		project.DetailProjectFunc = project.DetailProject
		project.UpdateProjectFunc = project.UpdateProject
		project.DeleteProjectFunc = project.DeleteProject
		project.UpdateProjectProgressFunc = project.UpdateProjectProgress
		project.FetchProjectStatsFunc = project.FetchProjectStats
	})

	demoProject := func() *domain.Project {
		budget := 1000.0
		return &domain.Project{
			ID: 123, Title: "Website Revamp", Description: "rebuild the marketing site",
			Status: domain.StatusOngoing, Priority: domain.PriorityHigh,
			Client: "ACME", TeamMembers: domain.StringList{"ann"}, Budget: &budget,
			Progress: 40, Tags: domain.StringList{"web"},
			OwnerID: 100, LastModifiedBy: 100, CreateTime: timestamp, UpdateTime: timestamp,
		}
	}
	demoProjectJSON := func() string {
		return `{"id":"123","title":"Website Revamp","description":"rebuild the marketing site",
		"status":"ongoing","priority":"high","startDate":null,"endDate":null,"estimatedEndDate":null,
		"client":"ACME","teamMembers":["ann"],"budget":1000,"progress":40,"tags":["web"],
		"ownerId":"100","lastModifiedBy":"100","createTime":"` + timeString + `","updateTime":"` + timeString + `"}`
	}

	Describe("handleCreate", func() {
		It("should be able to serve create request", func() {
			project.CreateProjectFunc = func(c *domain.ProjectCreation, s *session.Session) (*domain.Project, error) {
				Expect(c.Title).To(Equal("Website Revamp"))
				Expect(s.Identity.ID).To(Equal(types.ID(100)))
				return demoProject(), nil
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/projects",
				bytes.NewReader([]byte(`{"title":"Website Revamp","description":"rebuild the marketing site"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(MatchJSON(demoProjectJSON()))
		})

		It("should return 400 when bind failed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewReader([]byte(`bad json`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid character 'b' looking for beginning of value","data":null}`))
		})

		It("should return 400 when validate failed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/projects", bytes.NewReader([]byte(`{}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"Key: 'ProjectCreation.Title' Error:Field validation for 'Title' failed on the 'required' tag\nKey: 'ProjectCreation.Description' Error:Field validation for 'Description' failed on the 'required' tag","data":null}`))
		})

		It("should return 500 when service process failed", func() {
			project.CreateProjectFunc = func(c *domain.ProjectCreation, s *session.Session) (*domain.Project, error) {
				return nil, errors.New("a mocked error")
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/projects",
				bytes.NewReader([]byte(`{"title":"t","description":"d"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusInternalServerError))
			Expect(body).To(MatchJSON(`{"code":"common.internal_server_error","message":"a mocked error","data":null}`))
		})
	})

	Describe("handleQuery", func() {
		It("should bind filters and serve the page", func() {
			var bound *domain.ProjectQuery
			project.QueryProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) (*domain.ProjectPage, error) {
				bound = q
				return &domain.ProjectPage{
					Data: []domain.Project{*demoProject()},
					Pagination: domain.Pagination{
						CurrentPage: 2, TotalPages: 5, TotalProjects: 42, HasNextPage: true, HasPrevPage: true,
					},
				}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/v1/projects?status=ongoing&client=ACME&page=2&limit=5&sort=-title", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(bound).To(Equal(&domain.ProjectQuery{Status: "ongoing", Client: "ACME", Page: 2, Limit: 5, Sort: "-title"}))
			Expect(body).To(MatchJSON(`{"data":[` + demoProjectJSON() + `],
			"pagination":{"currentPage":2,"totalPages":5,"totalProjects":42,"hasNextPage":true,"hasPrevPage":true}}`))
		})

		It("should return 400 when paging is rejected", func() {
			project.QueryProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) (*domain.ProjectPage, error) {
				return nil, bizerror.BadParam("limit", "must be between 1 and 100")
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/projects?limit=1000", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"limit: must be between 1 and 100",
			"data":[{"field":"limit","reason":"must be between 1 and 100"}]}`))
		})

		It("should return 401 without an authenticated session", func() {
			project.QueryProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) (*domain.ProjectPage, error) {
				return nil, bizerror.ErrUnauthenticated
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusUnauthorized))
			Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))
		})
	})

	Describe("handleDetail", func() {
		It("should be able to serve detail request", func() {
			project.DetailProjectFunc = func(id types.ID, s *session.Session) (*domain.Project, error) {
				Expect(id).To(Equal(types.ID(123)))
				return demoProject(), nil
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/projects/123", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(demoProjectJSON()))
		})

		It("should return 400 for a malformed id", func() {
			req := httptest.NewRequest(http.MethodGet, "/v1/projects/abc", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"id: invalid project id 'abc'",
			"data":[{"field":"id","reason":"invalid project id 'abc'"}]}`))
		})

		It("should return 404 when record is invisible", func() {
			project.DetailProjectFunc = func(id types.ID, s *session.Session) (*domain.Project, error) {
				return nil, domain.ErrNotFound
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/projects/123", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
		})
	})

	Describe("handleUpdate", func() {
		It("should be able to serve update request", func() {
			project.UpdateProjectFunc = func(id types.ID, u *domain.ProjectUpdating, s *session.Session) (*domain.Project, error) {
				Expect(id).To(Equal(types.ID(123)))
				Expect(*u.Title).To(Equal("New Title"))
				Expect(u.Description).To(BeNil())
				record := demoProject()
				record.Title = *u.Title
				return record, nil
			}
			req := httptest.NewRequest(http.MethodPut, "/v1/projects/123",
				bytes.NewReader([]byte(`{"title":"New Title"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"title":"New Title"`))
		})

		It("should return 404 when record is invisible", func() {
			project.UpdateProjectFunc = func(id types.ID, u *domain.ProjectUpdating, s *session.Session) (*domain.Project, error) {
				return nil, domain.ErrNotFound
			}
			req := httptest.NewRequest(http.MethodPut, "/v1/projects/123", bytes.NewReader([]byte(`{"title":"t"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
		})
	})

	Describe("handleDelete", func() {
		It("should be able to serve delete request", func() {
			deleted := types.ID(0)
			project.DeleteProjectFunc = func(id types.ID, s *session.Session) error {
				deleted = id
				return nil
			}
			req := httptest.NewRequest(http.MethodDelete, "/v1/projects/123", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNoContent))
			Expect(body).To(BeEmpty())
			Expect(deleted).To(Equal(types.ID(123)))
		})
	})

	Describe("handleUpdateProgress", func() {
		It("should be able to serve progress request", func() {
			project.UpdateProjectProgressFunc = func(id types.ID, progress int, s *session.Session) (*domain.Project, error) {
				Expect(id).To(Equal(types.ID(123)))
				Expect(progress).To(Equal(60))
				record := demoProject()
				record.Progress = progress
				return record, nil
			}
			req := httptest.NewRequest(http.MethodPatch, "/v1/projects/123/progress",
				bytes.NewReader([]byte(`{"progress":60}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"progress":60`))
		})

		It("should return 400 when progress is missing", func() {
			req := httptest.NewRequest(http.MethodPatch, "/v1/projects/123/progress", bytes.NewReader([]byte(`{}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"progress: progress is required",
			"data":[{"field":"progress","reason":"progress is required"}]}`))
		})

		It("should return 400 when progress is out of range", func() {
			req := httptest.NewRequest(http.MethodPatch, "/v1/projects/123/progress",
				bytes.NewReader([]byte(`{"progress":150}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"progress: progress must be between 0 and 100",
			"data":[{"field":"progress","reason":"progress must be between 0 and 100"}]}`))
		})
	})

	Describe("handleStats", func() {
		It("should be able to serve stats request", func() {
			project.FetchProjectStatsFunc = func(s *session.Session) (*domain.ProjectStats, error) {
				return &domain.ProjectStats{
					TotalProjects:     3,
					StatusBreakdown:   domain.StatusBreakdown{Upcoming: 1, Ongoing: 1, Completed: 1},
					PriorityBreakdown: map[domain.ProjectPriority]int64{domain.PriorityHigh: 1, domain.PriorityMedium: 2},
					BudgetStats:       domain.BudgetStats{TotalBudget: 300, AverageBudget: 150, AverageProgress: 46.7},
					OverdueProjects:   1,
					RecentProjects:    3,
					RecentList:        []domain.ProjectSummary{},
					CompletionRate:    "33.3",
				}, nil
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/projects/stats", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"totalProjects":3,
			"statusBreakdown":{"upcoming":1,"ongoing":1,"completed":1,"on_hold":0},
			"priorityBreakdown":{"high":1,"medium":2},
			"budgetStats":{"totalBudget":300,"averageBudget":150,"averageProgress":46.7},
			"overdueProjects":1,"recentProjects":3,"recentList":[],"completionRate":"33.3"}`))
		})
	})

	Describe("handleSearch", func() {
		var restoreIndex func()

		BeforeEach(func() {
			client, err := elasticsearch.NewClient(elasticsearch.Config{})
			Expect(err).To(BeNil())
			es.ActiveESClient = client
			restoreIndex = func() {
				es.ActiveESClient = nil
				search.SearchProjectsFunc = search.SearchProjects
			}
		})
		AfterEach(func() {
			restoreIndex()
		})

		It("should serve hits from the index with single page metadata", func() {
			search.SearchProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) ([]domain.Project, error) {
				Expect(q.Search).To(Equal("vision"))
				return []domain.Project{*demoProject()}, nil
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/project-search?search=vision", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"pagination":{"currentPage":1,"totalPages":1,"totalProjects":1,"hasNextPage":false,"hasPrevPage":false}`))
		})

		It("should report zero pages for an empty index result", func() {
			search.SearchProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) ([]domain.Project, error) {
				return []domain.Project{}, nil
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/project-search?search=nothing", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"data":[],
			"pagination":{"currentPage":1,"totalPages":0,"totalProjects":0,"hasNextPage":false,"hasPrevPage":false}}`))
		})

		It("should fall back to the store when the index query fails", func() {
			search.SearchProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) ([]domain.Project, error) {
				return nil, errors.New("index unreachable")
			}
			project.QueryProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) (*domain.ProjectPage, error) {
				return &domain.ProjectPage{
					Data:       []domain.Project{*demoProject()},
					Pagination: domain.Pagination{CurrentPage: 1, TotalPages: 1, TotalProjects: 1},
				}, nil
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/project-search?search=vision", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"totalProjects":1`))
		})

		It("should fall back to the store when the index is not configured", func() {
			restoreIndex()
			restoreIndex = func() {}
			project.QueryProjectsFunc = func(q *domain.ProjectQuery, s *session.Session) (*domain.ProjectPage, error) {
				Expect(q.Search).To(Equal("vision"))
				return &domain.ProjectPage{
					Data:       []domain.Project{*demoProject()},
					Pagination: domain.Pagination{CurrentPage: 1, TotalPages: 1, TotalProjects: 1},
				}, nil
			}
			req := httptest.NewRequest(http.MethodGet, "/v1/project-search?search=vision", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(ContainSubstring(`"totalProjects":1`))
		})
	})
})
