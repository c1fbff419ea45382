package service

import (
	"strings"

	"github.com/thanhng/cv-match/internal/model"
)

const maxCourseSuggestions = 10

type catalogEntry struct {
	key     string
	courses []model.CourseSuggestion
}

// Catalog keys are normalized (lowercase). Order matters for the substring
// fallback, so this is a slice, not a map.
var courseCatalog = []catalogEntry{
	{"python", []model.CourseSuggestion{
		{Skill: "Python", Title: "Python for Everybody", Provider: "Coursera", URL: "https://www.coursera.org/specializations/python"},
		{Skill: "Python", Title: "Automate the Boring Stuff with Python", Provider: "Udemy", URL: "https://www.udemy.com/course/automate/"},
	}},
	{"sql", []model.CourseSuggestion{
		{Skill: "SQL", Title: "SQL for Data Analysis", Provider: "Mode", URL: "https://mode.com/sql-tutorial/"},
		{Skill: "SQL", Title: "Advanced SQL for Data Scientists", Provider: "DataCamp", URL: "https://www.datacamp.com/courses/advanced-sql-for-data-scientists"},
	}},
	{"javascript", []model.CourseSuggestion{
		{Skill: "JavaScript", Title: "JavaScript Algorithms and Data Structures", Provider: "freeCodeCamp", URL: "https://www.freecodecamp.org/learn/javascript-algorithms-and-data-structures/"},
	}},
	{"machine learning", []model.CourseSuggestion{
		{Skill: "Machine Learning", Title: "Machine Learning Specialization", Provider: "Coursera", URL: "https://www.coursera.org/specializations/machine-learning-introduction"},
	}},
	{"excel", []model.CourseSuggestion{
		{Skill: "Excel", Title: "Excel Skills for Business", Provider: "Coursera", URL: "https://www.coursera.org/specializations/excel"},
	}},
	{"communication", []model.CourseSuggestion{
		{Skill: "Communication", Title: "Improving Communication Skills", Provider: "Coursera", URL: "https://www.coursera.org/learn/wharton-communication-skills"},
	}},
}

// CourseRecommender maps missing skills to catalog courses. Unknown skills
// are skipped silently.
type CourseRecommender struct {
	catalog []catalogEntry
}

func NewCourseRecommender() *CourseRecommender {
	return &CourseRecommender{catalog: courseCatalog}
}

// Suggest walks the missing skills in order, matching each against the
// catalog by exact key first, then by the first key that is a substring of
// the skill. Suggestions are deduplicated by title+URL and capped at 10.
func (r *CourseRecommender) Suggest(missingSkills []string) []model.CourseSuggestion {
	suggestions := []model.CourseSuggestion{}
	seen := make(map[string]bool)

	for _, skill := range missingSkills {
		key := strings.ToLower(skill)
		entry := r.match(key)
		if entry == nil {
			continue
		}
		for _, course := range entry.courses {
			marker := course.Title + "|" + course.URL
			if seen[marker] {
				continue
			}
			seen[marker] = true
			suggestions = append(suggestions, course)
			if len(suggestions) >= maxCourseSuggestions {
				return suggestions
			}
		}
	}
	return suggestions
}

func (r *CourseRecommender) match(key string) *catalogEntry {
	for i := range r.catalog {
		if r.catalog[i].key == key {
			return &r.catalog[i]
		}
	}
	for i := range r.catalog {
		if strings.Contains(key, r.catalog[i].key) {
			return &r.catalog[i]
		}
	}
	return nil
}
