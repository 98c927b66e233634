package domain

import "time"

type ProjectCreation struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=1000"`
	Status      ProjectStatus   `json:"status"`
	Priority    ProjectPriority `json:"priority"`

	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	EstimatedEndDate *time.Time `json:"estimatedEndDate"`

	Client      string   `json:"client" validate:"max=100"`
	TeamMembers []string `json:"teamMembers"`
	Budget      *float64 `json:"budget"`
	Progress    *int     `json:"progress"`
	Tags        []string `json:"tags"`
}

// ProjectUpdating is a patch: nil means "leave unchanged".
type ProjectUpdating struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *ProjectStatus   `json:"status"`
	Priority    *ProjectPriority `json:"priority"`

	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	EstimatedEndDate *time.Time `json:"estimatedEndDate"`

	Client      *string   `json:"client"`
	TeamMembers *[]string `json:"teamMembers"`
	Budget      *float64  `json:"budget"`
	Progress    *int      `json:"progress"`
	Tags        *[]string `json:"tags"`
}

type ProgressUpdating struct {
	Progress *int `json:"progress" validate:"required"`
}

type ProjectQuery struct {
	Status   string `json:"status" form:"status"`
	Priority string `json:"priority" form:"priority"`
	Client   string `json:"client" form:"client"`
	Search   string `json:"search" form:"search"`

	Page  int    `json:"page" form:"page"`
	Limit int    `json:"limit" form:"limit"`
	Sort  string `json:"sort" form:"sort"`
}

type Pagination struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalProjects int64 `json:"totalProjects"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
}

type ProjectPage struct {
	Data       []Project  `json:"data"`
	Pagination Pagination `json:"pagination"`
}
