package project

import (
	"errors"
	"time"
	"unicode/utf8"

	"nextvision/bizerror"
	"nextvision/common"
	"nextvision/domain"
	"nextvision/indices"
	"nextvision/persistence"
	"nextvision/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	projectIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateProjectFunc         = CreateProject
	QueryProjectsFunc         = QueryProjects
	DetailProjectFunc         = DetailProject
	UpdateProjectFunc         = UpdateProject
	DeleteProjectFunc         = DeleteProject
	UpdateProjectProgressFunc = UpdateProjectProgress
)

// requireIdentity is the ownership guard entry: every operation is scoped to
// the requesting principal and fails without one.
func requireIdentity(s *session.Session) (types.ID, error) {
	if !s.Authenticated() {
		return 0, bizerror.ErrUnauthenticated
	}
	return s.Identity.ID, nil
}

// findOwnedProject loads one record scoped to its owner. A record owned by
// another principal is indistinguishable from a nonexistent one.
func findOwnedProject(db *gorm.DB, id, ownerID types.ID) (*domain.Project, error) {
	record := domain.Project{}
	if err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func CreateProject(c *domain.ProjectCreation, s *session.Session) (*domain.Project, error) {
	ownerID, err := requireIdentity(s)
	if err != nil {
		return nil, err
	}
	if err := validateCreation(c); err != nil {
		return nil, err
	}

	now := time.Now()
	record := domain.Project{
		ID:          common.NextId(projectIdWorker),
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		Priority:    c.Priority,

		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		EstimatedEndDate: c.EstimatedEndDate,

		Client:      c.Client,
		TeamMembers: domain.StringList(c.TeamMembers).Trimmed(),
		Budget:      c.Budget,
		Tags:        domain.StringList(c.Tags).Lowered(),

		OwnerID:        ownerID,
		LastModifiedBy: ownerID,
		CreateTime:     now,
		UpdateTime:     now,
	}
	if record.Status == "" {
		record.Status = domain.StatusUpcoming
	}
	if record.Priority == "" {
		record.Priority = domain.PriorityMedium
	}
	if c.Progress != nil {
		record.Progress = *c.Progress
	}
	ApplyProgressCoupling(&record, c.Status != "", c.Progress != nil)

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}

	indices.NotifyProjectChangedFunc(&record, s)
	return &record, nil
}

func QueryProjects(q *domain.ProjectQuery, s *session.Session) (*domain.ProjectPage, error) {
	ownerID, err := requireIdentity(s)
	if err != nil {
		return nil, err
	}
	plan, err := BuildQueryPlan(q, ownerID)
	if err != nil {
		return nil, err
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	var totalMatching int64
	if err := plan.Filtered(db.Model(&domain.Project{})).Count(&totalMatching).Error; err != nil {
		return nil, err
	}

	records := []domain.Project{}
	if err := plan.Paged(db).Find(&records).Error; err != nil {
		return nil, err
	}

	return &domain.ProjectPage{Data: records, Pagination: BuildPagination(plan, totalMatching)}, nil
}

func DetailProject(id types.ID, s *session.Session) (*domain.Project, error) {
	ownerID, err := requireIdentity(s)
	if err != nil {
		return nil, err
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return findOwnedProject(db, id, ownerID)
}

func UpdateProject(id types.ID, u *domain.ProjectUpdating, s *session.Session) (*domain.Project, error) {
	ownerID, err := requireIdentity(s)
	if err != nil {
		return nil, err
	}
	if err := validateUpdating(u); err != nil {
		return nil, err
	}

	var updated *domain.Project
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		current, err := findOwnedProject(tx, id, ownerID)
		if err != nil {
			return err
		}

		merged := *current
		applyPatch(&merged, u)

		if merged.StartDate != nil && merged.EndDate != nil && merged.StartDate.After(*merged.EndDate) {
			return bizerror.BadParam("startDate", "start date cannot be after end date")
		}

		ApplyProgressCoupling(&merged, u.Status != nil, u.Progress != nil)

		// ownership is immutable: the patch carries no owner field and the
		// stored value always wins
		merged.OwnerID = current.OwnerID
		merged.CreateTime = current.CreateTime
		merged.LastModifiedBy = s.Identity.ID
		merged.UpdateTime = time.Now()

		if err := tx.Save(&merged).Error; err != nil {
			return err
		}
		updated = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	indices.NotifyProjectChangedFunc(updated, s)
	return updated, nil
}

// UpdateProjectProgress is the progress-only fast path. The applied value is
// clamped into [0, 100]; rejection of out-of-range input is the REST
// boundary's policy.
func UpdateProjectProgress(id types.ID, progress int, s *session.Session) (*domain.Project, error) {
	ownerID, err := requireIdentity(s)
	if err != nil {
		return nil, err
	}

	var updated *domain.Project
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		current, err := findOwnedProject(tx, id, ownerID)
		if err != nil {
			return err
		}

		record := *current
		record.Progress = ClampProgress(progress)
		ApplyProgressCoupling(&record, false, true)
		record.LastModifiedBy = s.Identity.ID
		record.UpdateTime = time.Now()

		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		updated = &record
		return nil
	})
	if err != nil {
		return nil, err
	}

	indices.NotifyProjectChangedFunc(updated, s)
	return updated, nil
}

func DeleteProject(id types.ID, s *session.Session) error {
	ownerID, err := requireIdentity(s)
	if err != nil {
		return err
	}

	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedProject(tx, id, ownerID); err != nil {
			return err
		}
		return tx.Delete(domain.Project{}, "id = ? AND owner_id = ?", id, ownerID).Error
	})
	if err != nil {
		return err
	}

	indices.NotifyProjectRemovedFunc(id, s)
	return nil
}

func validateCreation(c *domain.ProjectCreation) error {
	badParam := &bizerror.ErrBadParam{}
	if c.Title == "" {
		badParam.Append("title", "title is required")
	} else if utf8.RuneCountInString(c.Title) > 200 {
		badParam.Append("title", "title cannot exceed 200 characters")
	}
	if c.Description == "" {
		badParam.Append("description", "description is required")
	} else if utf8.RuneCountInString(c.Description) > 1000 {
		badParam.Append("description", "description cannot exceed 1000 characters")
	}
	if utf8.RuneCountInString(c.Client) > 100 {
		badParam.Append("client", "client name cannot exceed 100 characters")
	}
	if c.Status != "" && !c.Status.IsValid() {
		badParam.Append("status", "unknown status '"+string(c.Status)+"'")
	}
	if c.Priority != "" && !c.Priority.IsValid() {
		badParam.Append("priority", "unknown priority '"+string(c.Priority)+"'")
	}
	if c.Budget != nil && *c.Budget < 0 {
		badParam.Append("budget", "budget cannot be negative")
	}
	if c.Progress != nil && (*c.Progress < 0 || *c.Progress > 100) {
		badParam.Append("progress", "progress must be between 0 and 100")
	}
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		badParam.Append("startDate", "start date cannot be after end date")
	}
	if badParam.HasErrors() {
		return badParam
	}
	return nil
}

// validateUpdating checks per-field constraints of the patch. The full
// update path rejects out-of-range progress instead of clamping.
func validateUpdating(u *domain.ProjectUpdating) error {
	badParam := &bizerror.ErrBadParam{}
	if u.Title != nil {
		if *u.Title == "" {
			badParam.Append("title", "title is required")
		} else if utf8.RuneCountInString(*u.Title) > 200 {
			badParam.Append("title", "title cannot exceed 200 characters")
		}
	}
	if u.Description != nil {
		if *u.Description == "" {
			badParam.Append("description", "description is required")
		} else if utf8.RuneCountInString(*u.Description) > 1000 {
			badParam.Append("description", "description cannot exceed 1000 characters")
		}
	}
	if u.Client != nil && utf8.RuneCountInString(*u.Client) > 100 {
		badParam.Append("client", "client name cannot exceed 100 characters")
	}
	if u.Status != nil && !u.Status.IsValid() {
		badParam.Append("status", "unknown status '"+string(*u.Status)+"'")
	}
	if u.Priority != nil && !u.Priority.IsValid() {
		badParam.Append("priority", "unknown priority '"+string(*u.Priority)+"'")
	}
	if u.Budget != nil && *u.Budget < 0 {
		badParam.Append("budget", "budget cannot be negative")
	}
	if u.Progress != nil && (*u.Progress < 0 || *u.Progress > 100) {
		badParam.Append("progress", "progress must be between 0 and 100")
	}
	if badParam.HasErrors() {
		return badParam
	}
	return nil
}

func applyPatch(record *domain.Project, u *domain.ProjectUpdating) {
	if u.Title != nil {
		record.Title = *u.Title
	}
	if u.Description != nil {
		record.Description = *u.Description
	}
	if u.Status != nil {
		record.Status = *u.Status
	}
	if u.Priority != nil {
		record.Priority = *u.Priority
	}
	if u.StartDate != nil {
		record.StartDate = u.StartDate
	}
	if u.EndDate != nil {
		record.EndDate = u.EndDate
	}
	if u.EstimatedEndDate != nil {
		record.EstimatedEndDate = u.EstimatedEndDate
	}
	if u.Client != nil {
		record.Client = *u.Client
	}
	if u.TeamMembers != nil {
		record.TeamMembers = domain.StringList(*u.TeamMembers).Trimmed()
	}
	if u.Budget != nil {
		record.Budget = u.Budget
	}
	if u.Progress != nil {
		record.Progress = *u.Progress
	}
	if u.Tags != nil {
		record.Tags = domain.StringList(*u.Tags).Lowered()
	}
}
