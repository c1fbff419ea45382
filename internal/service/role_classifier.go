package service

import "strings"

type roleEntry struct {
	role     string
	keywords []string
}

// Declaration order breaks ties: the first role with the highest keyword hit
// count wins.
var roleTable = []roleEntry{
	{"Data Analyst", []string{"pandas", "sql", "excel", "tableau", "power", "bi"}},
	{"ML Engineer", []string{"machine learning", "deep learning", "pytorch", "tensorflow"}},
	{"Content Writer (Marketing)", []string{"content", "seo", "canva", "wordpress"}},
	{"Virtual Assistant", []string{"scheduling", "email", "sheets", "support"}},
}

// RoleClassifier predicts a role label by keyword overlap against a small
// fixed table.
type RoleClassifier struct {
	table []roleEntry
}

func NewRoleClassifier() *RoleClassifier {
	return &RoleClassifier{table: roleTable}
}

func (c *RoleClassifier) Predict(cvText string) string {
	if strings.TrimSpace(cvText) == "" {
		return "Unknown"
	}
	lowered := strings.ToLower(cvText)
	best := "Unknown"
	bestHits := 0
	for _, entry := range c.table {
		hits := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = entry.role
		}
	}
	return best
}
