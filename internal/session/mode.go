package session

import "fmt"

// Mode is the screen the session is on. It is one of List, Selecting or
// Detail.
type Mode interface {
	isMode()
	fmt.Stringer
}

// List shows every playlist and the entry point for creating a new one
type List struct{}

// Selecting is the search screen that builds the selection for a new playlist
type Selecting struct{}

// Detail shows the playlist at Index. While Editing, tracks can be removed
// and added through the add-track search.
type Detail struct {
	Index   int
	Editing bool
}

func (List) isMode()      {}
func (Selecting) isMode() {}
func (Detail) isMode()    {}

func (List) String() string      { return "list" }
func (Selecting) String() string { return "selecting" }

func (d Detail) String() string {
	if d.Editing {
		return fmt.Sprintf("detail(%d, editing)", d.Index)
	}
	return fmt.Sprintf("detail(%d)", d.Index)
}

// Target names one of the two search boxes
type Target int

const (
	// MainSearch finds tracks for a new playlist
	MainSearch Target = iota
	// AddSearch finds tracks to add to the playlist being edited
	AddSearch
)

func (t Target) String() string {
	switch t {
	case MainSearch:
		return "main"
	case AddSearch:
		return "add"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}
