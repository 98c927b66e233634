package domain

// StatusBreakdown always reports all four statuses, zeros included.
type StatusBreakdown struct {
	Upcoming  int64 `json:"upcoming"`
	Ongoing   int64 `json:"ongoing"`
	Completed int64 `json:"completed"`
	OnHold    int64 `json:"on_hold"`
}

type BudgetStats struct {
	TotalBudget     float64 `json:"totalBudget"`
	AverageBudget   float64 `json:"averageBudget"`
	AverageProgress float64 `json:"averageProgress"`
}

// ProjectStats is the on-demand report over one owner's project set.
// It is never persisted and is recomputed fully on every request.
type ProjectStats struct {
	TotalProjects     int64                     `json:"totalProjects"`
	StatusBreakdown   StatusBreakdown           `json:"statusBreakdown"`
	PriorityBreakdown map[ProjectPriority]int64 `json:"priorityBreakdown"`
	BudgetStats       BudgetStats               `json:"budgetStats"`
	OverdueProjects   int64                     `json:"overdueProjects"`
	RecentProjects    int64                     `json:"recentProjects"`
	RecentList        []ProjectSummary          `json:"recentList"`
	CompletionRate    string                    `json:"completionRate"`
}
