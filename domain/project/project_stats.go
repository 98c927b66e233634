package project

import (
	"math"
	"strconv"
	"time"

	"nextvision/domain"
	"nextvision/persistence"
	"nextvision/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var (
	FetchProjectStatsFunc = FetchProjectStats

	recentWindow   = 30 * 24 * time.Hour
	recentListSize = 5
)

// statsFold holds the grouped part of the report. Both the SQL aggregate
// path and the in-process fallback produce this shape from the same data,
// so the two paths cannot diverge.
type statsFold struct {
	Total     int64
	Completed int64
	Status    domain.StatusBreakdown
	Priority  map[domain.ProjectPriority]int64
	Budget    domain.BudgetStats
	Overdue   int64
}

// FetchProjectStats assembles the full report for the requesting principal.
// The grouped aggregates are recomputed from the full record set when their
// SQL path fails; only a failure to read the base record set fails the
// request. Sub-queries are not snapshot isolated, so a report computed while
// a write is in flight may reflect a partially-updated view.
func FetchProjectStats(s *session.Session) (*domain.ProjectStats, error) {
	ownerID, err := requireIdentity(s)
	if err != nil {
		return nil, err
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	now := time.Now()

	stats := domain.ProjectStats{PriorityBreakdown: map[domain.ProjectPriority]int64{}}

	if err := ownedProjects(db, ownerID).Count(&stats.TotalProjects).Error; err != nil {
		return nil, err
	}
	counts := map[domain.ProjectStatus]*int64{
		domain.StatusUpcoming:  &stats.StatusBreakdown.Upcoming,
		domain.StatusOngoing:   &stats.StatusBreakdown.Ongoing,
		domain.StatusCompleted: &stats.StatusBreakdown.Completed,
		domain.StatusOnHold:    &stats.StatusBreakdown.OnHold,
	}
	for _, status := range domain.ProjectStatuses() {
		if err := ownedProjects(db, ownerID).Where("status = ?", status).Count(counts[status]).Error; err != nil {
			return nil, err
		}
	}

	grouped, err := groupedAggregates(db, ownerID, now)
	if err != nil {
		// fall back to folding over the full record set; the report shape
		// is unchanged and the degradation stays invisible to the caller
		logrus.Warnf("project stats aggregate query failed, recomputing in process: %v", err)
		records := []domain.Project{}
		if err := ownedProjects(db, ownerID).Find(&records).Error; err != nil {
			return nil, err
		}
		fold := foldProjectStats(records, now)
		grouped = &fold
	}
	stats.PriorityBreakdown = grouped.Priority
	stats.BudgetStats = grouped.Budget
	stats.OverdueProjects = grouped.Overdue

	if err := ownedProjects(db, ownerID).Where("create_time >= ?", now.Add(-recentWindow)).
		Count(&stats.RecentProjects).Error; err != nil {
		return nil, err
	}

	recent := []domain.Project{}
	if err := db.Where("owner_id = ?", ownerID).Order("create_time DESC").
		Limit(recentListSize).Find(&recent).Error; err != nil {
		return nil, err
	}
	stats.RecentList = make([]domain.ProjectSummary, 0, len(recent))
	for i := range recent {
		stats.RecentList = append(stats.RecentList, recent[i].Summary())
	}

	stats.CompletionRate = completionRate(stats.StatusBreakdown.Completed, stats.TotalProjects)
	return &stats, nil
}

func ownedProjects(db *gorm.DB, ownerID types.ID) *gorm.DB {
	return db.Model(&domain.Project{}).Where("owner_id = ?", ownerID)
}

func groupedAggregates(db *gorm.DB, ownerID types.ID, now time.Time) (*statsFold, error) {
	fold := statsFold{Priority: map[domain.ProjectPriority]int64{}}

	priorityRows := []struct {
		Priority domain.ProjectPriority
		Count    int64
	}{}
	if err := ownedProjects(db, ownerID).Select("priority, COUNT(*) AS count").
		Group("priority").Scan(&priorityRows).Error; err != nil {
		return nil, err
	}
	for _, row := range priorityRows {
		fold.Priority[row.Priority] = row.Count
	}

	// AVG skips NULL budgets, giving the mean over budgeted records only
	budgetRow := struct {
		TotalBudget     float64
		AverageBudget   float64
		AverageProgress float64
	}{}
	if err := ownedProjects(db, ownerID).
		Select("COALESCE(SUM(budget), 0) AS total_budget, COALESCE(AVG(budget), 0) AS average_budget, COALESCE(AVG(progress), 0) AS average_progress").
		Scan(&budgetRow).Error; err != nil {
		return nil, err
	}
	fold.Budget = domain.BudgetStats{TotalBudget: budgetRow.TotalBudget,
		AverageBudget: budgetRow.AverageBudget, AverageProgress: budgetRow.AverageProgress}

	if err := ownedProjects(db, ownerID).
		Where("end_date IS NOT NULL AND end_date < ? AND status <> ?", now, domain.StatusCompleted).
		Count(&fold.Overdue).Error; err != nil {
		return nil, err
	}

	return &fold, nil
}

// foldProjectStats computes the grouped aggregates from a record list. It is
// the reference semantics the SQL path must match: priorities with zero
// occurrences are omitted, the budget mean covers budgeted records only, and
// an empty set yields zeros rather than NaN.
func foldProjectStats(records []domain.Project, now time.Time) statsFold {
	fold := statsFold{Priority: map[domain.ProjectPriority]int64{}}
	var budgetSum float64
	var budgetCount, progressSum int64

	for i := range records {
		record := &records[i]
		fold.Total++

		switch record.Status {
		case domain.StatusUpcoming:
			fold.Status.Upcoming++
		case domain.StatusOngoing:
			fold.Status.Ongoing++
		case domain.StatusCompleted:
			fold.Status.Completed++
			fold.Completed++
		case domain.StatusOnHold:
			fold.Status.OnHold++
		}

		fold.Priority[record.Priority]++

		if record.Budget != nil {
			budgetSum += *record.Budget
			budgetCount++
		}
		progressSum += int64(record.Progress)

		if record.IsOverdue(now) {
			fold.Overdue++
		}
	}

	fold.Budget.TotalBudget = budgetSum
	if budgetCount > 0 {
		fold.Budget.AverageBudget = budgetSum / float64(budgetCount)
	}
	if fold.Total > 0 {
		fold.Budget.AverageProgress = float64(progressSum) / float64(fold.Total)
	}
	return fold
}

// completionRate renders completed/total as a percentage with one decimal,
// "0.0" for an empty set.
func completionRate(completed, total int64) string {
	if total == 0 {
		return "0.0"
	}
	rate := float64(completed) / float64(total) * 100
	return strconv.FormatFloat(math.Round(rate*10)/10, 'f', 1, 64)
}
