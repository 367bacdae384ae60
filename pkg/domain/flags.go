package domain

import "strings"

// RenderFlags tells a template function which part of its body to run.
//
// The set is closed: only Create and Update exist. Root and component views are
// invoked with Create exactly once and with Update on every pass. An inline embedded
// view receives Create|Update on the cycle that materializes it and Update afterwards.
type RenderFlags uint8

const (
	// Create runs node-creation instructions.
	Create RenderFlags = 1 << iota
	// Update runs binding instructions.
	Update
)

// Has reports whether all bits of f are set in rf.
func (rf RenderFlags) Has(f RenderFlags) bool {
	return f != 0 && rf&f == f
}

// Creating is shorthand for rf.Has(Create).
func (rf RenderFlags) Creating() bool { return rf.Has(Create) }

// Updating is shorthand for rf.Has(Update).
func (rf RenderFlags) Updating() bool { return rf.Has(Update) }

func (rf RenderFlags) String() string {
	var parts []string
	if rf.Creating() {
		parts = append(parts, "create")
	}
	if rf.Updating() {
		parts = append(parts, "update")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
