package utils

import "cyberlearn/models"

// SectionGroup is one section of a module with its content in order
type SectionGroup struct {
	Section       string           `json:"section"`
	Items         []models.Content `json:"items"`
	TotalDuration int              `json:"totalDuration"`
	Count         int              `json:"count"`
}

// GroupBySection expects items sorted by order. Sections come out ordered by their lowest item order.
func GroupBySection(items []models.Content) []SectionGroup {
	groups := []SectionGroup{}
	index := map[string]int{}
	for _, item := range items {
		i, ok := index[item.Section]
		if !ok {
			i = len(groups)
			index[item.Section] = i
			groups = append(groups, SectionGroup{Section: item.Section, Items: []models.Content{}})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].TotalDuration += item.Duration
		groups[i].Count++
	}
	return groups
}

// SectionNames lists distinct sections in the same order as GroupBySection
func SectionNames(items []models.Content) []string {
	names := []string{}
	seen := map[string]bool{}
	for _, item := range items {
		if !seen[item.Section] {
			seen[item.Section] = true
			names = append(names, item.Section)
		}
	}
	return names
}
