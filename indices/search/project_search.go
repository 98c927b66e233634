package search

import (
	"encoding/json"
	"strings"

	"nextvision/client/es"
	"nextvision/domain"
	"nextvision/indices"
	"nextvision/session"
)

var (
	SearchProjectsFunc = SearchProjects
)

// SearchProjects serves the free-text fast path from the search index,
// scoped to the requesting principal. Results follow index freshness, not
// the store, and callers fall back to the SQL substring query on error.
func SearchProjects(q *domain.ProjectQuery, s *session.Session) ([]domain.Project, error) {
	filters := make([]es.H, 0, 4)
	filters = append(filters, es.H{"term": es.H{"ownerId": s.Identity.ID}})

	if q.Status != "" {
		filters = append(filters, es.H{"term": es.H{"status": q.Status}})
	}
	if q.Priority != "" {
		filters = append(filters, es.H{"term": es.H{"priority": q.Priority}})
	}
	if q.Search != "" {
		filters = append(filters, es.H{"multi_match": es.H{
			"query":  q.Search,
			"fields": []string{"title", "description", "client"},
		}})
	}

	root := es.H{"bool": es.H{"filter": filters}}
	sorts := []es.H{{"createTime": es.H{"order": "desc"}}}
	r, err := es.SearchFunc(indices.ProjectIndexName, es.H{"size": 100, "query": root, "sort": sorts}, s)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Project, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := indices.ProjectDocument{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, doc.Project)
	}
	return records, nil
}
