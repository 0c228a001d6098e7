package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/completeditmate/mate/internal/domain"
)

// Filter narrows a loaded page of games by fuzzy title match. It is a
// view-level convenience for the omnibar; it never touches the browse
// query or the server.
func Filter(query string, games []*domain.Game) []*domain.Game {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return games
	}

	byTitle := make(map[string][]*domain.Game, len(games))
	titles := make([]string, 0, len(games))
	for _, g := range games {
		key := strings.ToLower(g.Title)
		if _, seen := byTitle[key]; !seen {
			titles = append(titles, key)
		}
		byTitle[key] = append(byTitle[key], g)
	}

	matches := fuzzy.RankFindFold(query, titles)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	results := make([]*domain.Game, 0, len(matches))
	for _, match := range matches {
		results = append(results, byTitle[match.Target]...)
	}
	return results
}
