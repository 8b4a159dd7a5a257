package reporter

import (
	"sql-qualify/internal/model"
)

// Recorder is an append-only ReportSink that keeps events and edits in
// processing order.
type Recorder struct {
	events []model.Event
	edits  []model.Edit
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Event(e model.Event) {
	r.events = append(r.events, e)
}

func (r *Recorder) Edit(e model.Edit) {
	r.edits = append(r.edits, e)
}

func (r *Recorder) Events() []model.Event {
	return r.events
}

func (r *Recorder) Edits() []model.Edit {
	return r.edits
}

// Count returns the number of recorded events at the given level.
func (r *Recorder) Count(level model.EventLevel) int {
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}
