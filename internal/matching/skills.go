// Package matching scores how well a resource's declared skills cover a
// story's required skills. The score guides manual assignment in the
// Gantt view; it is not an automated matcher.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/Brightside-Labs/Compass/internal/store"
)

// Score returns the percentage of required skills covered by the
// resource's skills, rounded to the nearest integer. A required skill
// counts as matched when either string contains the other,
// case-insensitively. Deliberately loose: "java" matches "javascript".
// Returns 0 when no skills are required.
func Score(resourceSkills, requiredSkills []string) int {
	if len(requiredSkills) == 0 {
		return 0
	}

	matched := 0
	for _, req := range requiredSkills {
		if matchesAny(req, resourceSkills) {
			matched++
		}
	}
	return int(math.Round(float64(matched) / float64(len(requiredSkills)) * 100))
}

func matchesAny(required string, skills []string) bool {
	req := strings.ToLower(strings.TrimSpace(required))
	if req == "" {
		return false
	}
	for _, s := range skills {
		skill := strings.ToLower(strings.TrimSpace(s))
		if skill == "" {
			continue
		}
		if strings.Contains(skill, req) || strings.Contains(req, skill) {
			return true
		}
	}
	return false
}

// ResourceMatch pairs a resource with its score against one story.
type ResourceMatch struct {
	Resource *store.Resource `json:"resource"`
	Score    int             `json:"score"`
}

// RankResources scores every resource against the required skills and
// returns them ordered best-first. Ties keep the input order, which the
// store returns sorted by name.
func RankResources(resources []*store.Resource, requiredSkills []string) []ResourceMatch {
	matches := make([]ResourceMatch, 0, len(resources))
	for _, r := range resources {
		matches = append(matches, ResourceMatch{
			Resource: r,
			Score:    Score(r.SkillNames(), requiredSkills),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
