package project

import (
	"math"
	"strings"

	"nextvision/bizerror"
	"nextvision/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	defaultSort = "-createTime"
)

// sortColumns maps the sort keys accepted at the boundary to columns.
var sortColumns = map[string]string{
	"createTime": "create_time",
	"updateTime": "update_time",
	"title":      "title",
	"priority":   "priority",
	"progress":   "progress",
	"budget":     "budget",
	"startDate":  "start_date",
	"endDate":    "end_date",
}

type QueryCondition struct {
	Expr string
	Args []interface{}
}

// QueryPlan is a resolved, bounded filter+sort+pagination request.
// Conditions always include the ownership filter.
type QueryPlan struct {
	Conditions []QueryCondition
	Order      string
	Page       int
	Limit      int
}

// BuildQueryPlan validates the query and resolves it against ownerID.
// Out-of-bounds page/limit and unknown sort keys are rejected; status or
// priority values outside the enums are kept verbatim and simply match
// nothing.
func BuildQueryPlan(q *domain.ProjectQuery, ownerID types.ID) (*QueryPlan, error) {
	badParam := &bizerror.ErrBadParam{}

	page := q.Page
	if page == 0 {
		page = defaultPage
	} else if page < 1 {
		badParam.Append("page", "must be greater than or equal to 1")
	}

	limit := q.Limit
	if limit == 0 {
		limit = defaultLimit
	} else if limit < 1 || limit > maxLimit {
		badParam.Append("limit", "must be between 1 and 100")
	}

	sort := q.Sort
	if sort == "" {
		sort = defaultSort
	}
	direction := "ASC"
	key := sort
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		key = sort[1:]
	}
	column, known := sortColumns[key]
	if !known {
		badParam.Append("sort", "unknown sort key '"+key+"'")
	}

	if badParam.HasErrors() {
		return nil, badParam
	}

	plan := &QueryPlan{Order: column + " " + direction, Page: page, Limit: limit}
	plan.Conditions = append(plan.Conditions, QueryCondition{Expr: "owner_id = ?", Args: []interface{}{ownerID}})

	if q.Status != "" {
		plan.Conditions = append(plan.Conditions, QueryCondition{Expr: "status = ?", Args: []interface{}{q.Status}})
	}
	if q.Priority != "" {
		plan.Conditions = append(plan.Conditions, QueryCondition{Expr: "priority = ?", Args: []interface{}{q.Priority}})
	}
	if q.Client != "" {
		plan.Conditions = append(plan.Conditions, QueryCondition{Expr: "client LIKE ?", Args: []interface{}{contains(q.Client)}})
	}
	if q.Search != "" {
		pattern := contains(q.Search)
		plan.Conditions = append(plan.Conditions, QueryCondition{
			Expr: "(title LIKE ? OR description LIKE ? OR client LIKE ?)",
			Args: []interface{}{pattern, pattern, pattern},
		})
	}
	return plan, nil
}

func contains(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + escaped + "%"
}

func (p *QueryPlan) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Filtered applies the filter conditions only, for count queries.
func (p *QueryPlan) Filtered(db *gorm.DB) *gorm.DB {
	for _, cond := range p.Conditions {
		db = db.Where(cond.Expr, cond.Args...)
	}
	return db
}

// Paged applies filters, sort and the page window.
func (p *QueryPlan) Paged(db *gorm.DB) *gorm.DB {
	return p.Filtered(db).Order(p.Order).Offset(p.Offset()).Limit(p.Limit)
}

// BuildPagination derives the metadata purely from the total matching count,
// never from the size of the returned page.
func BuildPagination(plan *QueryPlan, totalMatching int64) domain.Pagination {
	totalPages := int(math.Ceil(float64(totalMatching) / float64(plan.Limit)))
	return domain.Pagination{
		CurrentPage:   plan.Page,
		TotalPages:    totalPages,
		TotalProjects: totalMatching,
		HasNextPage:   plan.Page < totalPages,
		HasPrevPage:   plan.Page > 1,
	}
}
