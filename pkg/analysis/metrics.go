// Package analysis computes structural metrics over a loaded graph model.
// Outputs are deterministic and capped, suitable for agent consumption
// alongside the robot-stats JSON.
package analysis

import (
	"sort"

	"github.com/linkscope/linkscope/pkg/model"
)

// TopDegreeLimit caps the high-degree entity list so output stays bounded on
// large graphs.
const TopDegreeLimit = 5

// DegreeEntry names one entity and its combined in+out degree.
type DegreeEntry struct {
	Label  string `json:"label"`
	Degree int    `json:"degree"`
}

// Summary is the structural profile of a graph.
type Summary struct {
	Entities   int     `json:"entities"`
	Edges      int     `json:"edges"`
	SelfLinks  int     `json:"self_links"`
	Components int     `json:"components"`
	Isolated   int     `json:"isolated"`
	MaxDegree  int     `json:"max_degree"`
	AvgDegree  float64 `json:"avg_degree"`

	// TopDegree lists the most connected entities, capped at TopDegreeLimit,
	// ties broken by insertion order.
	TopDegree []DegreeEntry `json:"top_degree"`
}

// Summarize profiles the graph. A nil or empty graph yields a zero summary.
func Summarize(g *model.Graph) Summary {
	if g == nil || g.Len() == 0 {
		return Summary{}
	}

	n := g.Len()
	degrees := make([]int, n)
	totalDegree := 0
	for i := 0; i < n; i++ {
		degrees[i] = len(g.Incident(i))
		totalDegree += degrees[i]
	}

	s := Summary{
		Entities:   n,
		Edges:      len(g.Edges()),
		SelfLinks:  g.SelfLinkCount(),
		Components: componentCount(g),
		AvgDegree:  float64(totalDegree) / float64(n),
	}
	for _, d := range degrees {
		if d == 0 {
			s.Isolated++
		}
		if d > s.MaxDegree {
			s.MaxDegree = d
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return degrees[order[a]] > degrees[order[b]]
	})
	limit := TopDegreeLimit
	if limit > n {
		limit = n
	}
	for _, i := range order[:limit] {
		if degrees[i] == 0 {
			break
		}
		s.TopDegree = append(s.TopDegree, DegreeEntry{
			Label:  g.Entity(i).Label,
			Degree: degrees[i],
		})
	}
	return s
}

// componentCount counts weakly connected components with an iterative BFS
// over the incidence lists.
func componentCount(g *model.Graph) int {
	n := g.Len()
	visited := make([]bool, n)
	count := 0
	var queue []int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		count++
		visited[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			for _, e := range g.Incident(i) {
				other := e.From
				if other == i {
					other = e.To
				}
				if !visited[other] {
					visited[other] = true
					queue = append(queue, other)
				}
			}
		}
	}
	return count
}
