package app

import "time"

// Operation tracks one CLI command for logging. Its ID prefixes every log
// line the command writes, so a command's lines can be grepped together.
type Operation struct {
	ID         string
	Name       string
	Parameters string
	Status     string // "success" or "error"
	Mutations  int
	Start      time.Time
}

// NewOperation creates an operation whose ID is derived from start.
func NewOperation(name, parameters string, start time.Time) *Operation {
	return &Operation{
		ID:         start.UTC().Format("20060102T150405Z"),
		Name:       name,
		Parameters: parameters,
		Status:     "success",
		Start:      start,
	}
}

// Record marks the operation failed when err is non-nil and returns err unchanged.
func (op *Operation) Record(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Mutated reports whether the operation changed anything in the resource store.
func (op *Operation) Mutated() bool {
	return op.Mutations > 0
}
