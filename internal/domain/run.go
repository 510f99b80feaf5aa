package domain

// RunState enumerates the stages of one pipeline run.
type RunState string

const (
	StateFetching         RunState = "fetching"
	StateDeduping         RunState = "deduping"
	StateFiltering        RunState = "filtering"
	StateClassifying      RunState = "classifying"
	StateReconciling      RunState = "reconciling"
	StatePersisting       RunState = "persisting"
	StateDone             RunState = "done"
	StateDoneEmpty        RunState = "done-empty"
	StateDoneEmptyWithLog RunState = "done-empty-with-log"
	StateFailed           RunState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s RunState) Terminal() bool {
	switch s {
	case StateDone, StateDoneEmpty, StateDoneEmptyWithLog, StateFailed:
		return true
	}
	return false
}

// RunReport summarises one market radar run.
type RunReport struct {
	RunID      string
	State      RunState
	Fetched    int
	Unique     int
	Signals    int
	Priority   int
	Noise      int
	Batch      int
	Classified int
	Persist    PersistResult
	Categories map[string]int
	Notified   int
}
