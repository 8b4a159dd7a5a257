package model

// ReportSink receives events and edits in processing order.
// Implementations must be append-only; the engine never re-reads what it sent.
type ReportSink interface {
	// Event records a single finding
	Event(e Event)
	// Edit records the before/after pair of a changed statement
	Edit(e Edit)
}

// Reporter defines how to render collected results to the user
type Reporter interface {
	Report(events []Event, edits []Edit) error
}
