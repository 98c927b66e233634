package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

type ProjectStatus string

const (
	StatusUpcoming  ProjectStatus = "upcoming"
	StatusOngoing   ProjectStatus = "ongoing"
	StatusCompleted ProjectStatus = "completed"
	StatusOnHold    ProjectStatus = "on_hold"
)

func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{StatusUpcoming, StatusOngoing, StatusCompleted, StatusOnHold}
}

func (s ProjectStatus) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

type ProjectPriority string

const (
	PriorityLow      ProjectPriority = "low"
	PriorityMedium   ProjectPriority = "medium"
	PriorityHigh     ProjectPriority = "high"
	PriorityCritical ProjectPriority = "critical"
)

func (p ProjectPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// StringList persists a []string as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported source type of StringList")
}

// Lowered returns a copy with every element trimmed and lower-cased.
func (l StringList) Lowered() StringList {
	result := make(StringList, 0, len(l))
	for _, s := range l {
		result = append(result, strings.ToLower(strings.TrimSpace(s)))
	}
	return result
}

// Trimmed returns a copy with every element trimmed.
func (l StringList) Trimmed() StringList {
	result := make(StringList, 0, len(l))
	for _, s := range l {
		result = append(result, strings.TrimSpace(s))
	}
	return result
}

type Project struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Title       string          `json:"title"`
	Description string          `json:"description" gorm:"type:text"`
	Status      ProjectStatus   `json:"status"`
	Priority    ProjectPriority `json:"priority"`

	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	EstimatedEndDate *time.Time `json:"estimatedEndDate"`

	Client      string     `json:"client"`
	TeamMembers StringList `json:"teamMembers" gorm:"type:text"`
	Budget      *float64   `json:"budget"`
	Progress    int        `json:"progress"`
	Tags        StringList `json:"tags" gorm:"type:text"`

	OwnerID        types.ID `json:"ownerId"`
	LastModifiedBy types.ID `json:"lastModifiedBy"`

	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

func (Project) TableName() string {
	return "projects"
}

// IsOverdue reports whether the project passed its end date without completion.
func (p *Project) IsOverdue(now time.Time) bool {
	return p.EndDate != nil && p.EndDate.Before(now) && p.Status != StatusCompleted
}

// ProjectSummary is the lightweight projection used in stats recent lists.
type ProjectSummary struct {
	ID         types.ID        `json:"id"`
	Title      string          `json:"title"`
	Status     ProjectStatus   `json:"status"`
	Priority   ProjectPriority `json:"priority"`
	Progress   int             `json:"progress"`
	CreateTime time.Time       `json:"createTime"`
}

func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{ID: p.ID, Title: p.Title, Status: p.Status, Priority: p.Priority,
		Progress: p.Progress, CreateTime: p.CreateTime}
}
