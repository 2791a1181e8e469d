package healthcheck

import (
	"context"
	"sort"
	"sync"
)

// Registry fans out to registered checkers.
type Registry struct {
	mu       sync.RWMutex
	checkers []Checker
}

func NewRegistry(checkers ...Checker) *Registry {
	r := &Registry{}
	for _, c := range checkers {
		r.Add(c)
	}
	return r
}

// Add registers a checker. Nil checkers are ignored.
func (r *Registry) Add(c Checker) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, c)
}

// ListChecks returns every checker's results sorted by ID.
func (r *Registry) ListChecks(ctx context.Context) []CheckResult {
	if r == nil {
		return []CheckResult{}
	}
	r.mu.RLock()
	checkers := append([]Checker(nil), r.checkers...)
	r.mu.RUnlock()

	items := []CheckResult{}
	for _, c := range checkers {
		items = append(items, c.ListChecks(ctx)...)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Overall folds item statuses into the worst one. No items is unknown.
func Overall(items []CheckResult) string {
	if len(items) == 0 {
		return StatusUnknown
	}
	worst := StatusOK
	for _, item := range items {
		if severity(item.Status) > severity(worst) {
			worst = item.Status
		}
	}
	return worst
}

func severity(status string) int {
	switch status {
	case StatusOK:
		return 0
	case StatusWarn:
		return 1
	case StatusError:
		return 3
	default:
		return 2
	}
}
