package navigate

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridmart/martpilot/internal/domain"
)

// Service produces walking directions from the store entrance to an aisle.
// The layout and aisle placement are re-read per request so admin edits
// take effect immediately.
type Service struct {
	aisles   Aisles
	settings Settings
}

// New creates a navigation service.
func New(aisles Aisles, settings Settings) *Service {
	return &Service{aisles: aisles, settings: settings}
}

// Directions computes the shortest walk from the entrance to the named
// aisle. An unknown aisle or unreachable cell yields Found=false with a
// user-facing apology, never an error; errors are reserved for storage
// failures.
func (s *Service) Directions(ctx context.Context, aisleName string) (domain.DirectionResult, error) {
	layout, err := s.settings.Layout(ctx)
	if err != nil {
		return domain.DirectionResult{}, fmt.Errorf("store layout: %w", err)
	}
	aisles, err := s.aisles.ListAisles(ctx)
	if err != nil {
		return domain.DirectionResult{}, fmt.Errorf("list aisles: %w", err)
	}

	positions := make(map[string]domain.Aisle, len(aisles))
	for _, a := range aisles {
		if a.Position().InBounds(layout.Rows, layout.Cols) {
			positions[strings.ToLower(a.Name)] = a
		}
	}

	start := layout.Entrance
	target, ok := positions[strings.ToLower(aisleName)]
	if !ok {
		return domain.DirectionResult{
			Found:      false,
			Directions: fmt.Sprintf("Sorry, I couldn't find the location for aisle %s.", aisleName),
			Entrance:   start,
		}, nil
	}

	path := bfsPath(start, target.Position(), layout.Rows, layout.Cols)
	if path == nil {
		return domain.DirectionResult{
			Found:      false,
			Directions: fmt.Sprintf("Sorry, I couldn't find a path to aisle %s.", aisleName),
			Entrance:   start,
			Target:     target.Position(),
		}, nil
	}

	return domain.DirectionResult{
		Found: true,
		Directions: fmt.Sprintf("Head to Aisle %s (%s): %s",
			target.Name, target.Section, renderDirections(path)),
		Path:     path,
		Steps:    len(path) - 1,
		Entrance: start,
		Target:   target.Position(),
	}, nil
}

// bfsPath finds a shortest 4-directional path on the grid. Aisle cells are
// walkable: they are destinations, not walls. Returns nil when the target
// is unreachable.
func bfsPath(start, end domain.Point, rows, cols int) []domain.Point {
	if start == end {
		return []domain.Point{start}
	}

	type node struct {
		at   domain.Point
		path []domain.Point
	}
	visited := map[domain.Point]bool{start: true}
	queue := []node{{at: start, path: []domain.Point{start}}}

	moves := []domain.Point{{Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: -1, Col: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, m := range moves {
			next := domain.Point{Row: cur.at.Row + m.Row, Col: cur.at.Col + m.Col}
			if !next.InBounds(rows, cols) || visited[next] {
				continue
			}
			visited[next] = true

			path := make([]domain.Point, len(cur.path), len(cur.path)+1)
			copy(path, cur.path)
			path = append(path, next)

			if next == end {
				return path
			}
			queue = append(queue, node{at: next, path: path})
		}
	}
	return nil
}

// renderDirections turns a path into step-by-step text. Consecutive moves
// in the same direction collapse into one instruction.
func renderDirections(path []domain.Point) string {
	if len(path) < 2 {
		return "You're already there!"
	}

	var parts []string
	i := 0
	for i < len(path)-1 {
		dir := moveName(path[i], path[i+1])

		steps := 1
		for i+steps < len(path)-1 && moveName(path[i+steps], path[i+steps+1]) == dir {
			steps++
		}

		if steps == 1 {
			parts = append(parts, "Go "+dir)
		} else {
			parts = append(parts, fmt.Sprintf("Go %s for %d sections", dir, steps))
		}
		i += steps
	}
	return strings.Join(parts, " → ")
}

// moveName maps a unit move to its walking direction: rows grow walking
// into the store ("forward"), columns grow to the right.
func moveName(from, to domain.Point) string {
	switch {
	case to.Col == from.Col+1:
		return "right"
	case to.Col == from.Col-1:
		return "left"
	case to.Row == from.Row+1:
		return "forward"
	case to.Row == from.Row-1:
		return "back"
	default:
		return "forward"
	}
}
