package domain

// DiffOptions are the rendering options handed to the diff engine along
// with the two resolved revisions.
type DiffOptions struct {
	Stat     bool
	NameOnly bool
	Unified  int  // context lines; <0 keeps the engine default
	Color    bool // force color output
}
