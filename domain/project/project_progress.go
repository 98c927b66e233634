package project

import "nextvision/domain"

// ClampProgress forces a progress value into [0, 100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// ApplyProgressCoupling enforces the progress/status invariants on a merged
// record, once per write, after validation and before persistence.
// statusTouched and progressTouched say which of the two fields the caller
// set explicitly.
//
// The coupling is deliberately one-directional: moving status away from
// completed leaves progress where it is.
func ApplyProgressCoupling(p *domain.Project, statusTouched, progressTouched bool) {
	if statusTouched && p.Status == domain.StatusCompleted && p.Progress < 100 {
		p.Progress = 100
	}
	if progressTouched {
		if p.Progress == 100 && p.Status != domain.StatusCompleted {
			p.Status = domain.StatusCompleted
		} else if p.Progress > 0 && !statusTouched && p.Status == domain.StatusUpcoming {
			p.Status = domain.StatusOngoing
		}
	}
}
