package runs

// Store persists pass history.
type Store interface {
	// History returns all completed passes, most recent first.
	History() []Record
	// Save persists a completed pass.
	Save(Record) error
}
