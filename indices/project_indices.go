package indices

import (
	"nextvision/client/es"
	"nextvision/domain"
	"nextvision/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	ProjectIndexName = "projects"

	NotifyProjectChangedFunc = NotifyProjectChanged
	NotifyProjectRemovedFunc = NotifyProjectRemoved
)

type ProjectDocument struct {
	domain.Project
}

// Enabled reports whether the search index is configured. The SQL store is
// always the source of truth; indexing stays best effort.
func Enabled() bool {
	return es.ActiveESClient != nil
}

// NotifyProjectChanged refreshes the project's search document after a
// mutation. Failures are logged and never fail the mutation.
func NotifyProjectChanged(p *domain.Project, s *session.Session) {
	if !Enabled() {
		return
	}
	if err := es.IndexFunc(ProjectIndexName, p.ID, ProjectDocument{Project: *p}, s); err != nil {
		logrus.Warnf("index project %d failed: %v", p.ID, err)
	}
}

// NotifyProjectRemoved drops the project's search document after deletion.
func NotifyProjectRemoved(id types.ID, s *session.Session) {
	if !Enabled() {
		return
	}
	if err := es.DeleteDocumentByIdFunc(ProjectIndexName, id, s); err != nil {
		logrus.Warnf("remove project %d from index failed: %v", id, err)
	}
}
