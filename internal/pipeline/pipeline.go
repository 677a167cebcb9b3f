package pipeline

import "sort"

// Pipeline is a named, ordered set of Tasks built once at command-processor
// construction time and reused across every invocation of that command
// (spec §4.6: "the pipeline shape is fixed per command, built once").
type Pipeline struct {
	Name          string
	Tasks         []Task
	StopOnFailure bool
	SortByOrder   bool
}

// New builds a Pipeline, sorting tasks by Order() up front if sortByOrder
// is set, so Execute never has to re-sort per run.
func New(name string, stopOnFailure, sortByOrder bool, tasks ...Task) *Pipeline {
	p := &Pipeline{Name: name, Tasks: tasks, StopOnFailure: stopOnFailure, SortByOrder: sortByOrder}
	if sortByOrder {
		sorted := make([]Task, len(tasks))
		copy(sorted, tasks)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order() < sorted[j].Order() })
		p.Tasks = sorted
	}
	return p
}
