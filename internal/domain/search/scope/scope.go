package scope

// Scope selects which sources a search queries and merges.
type Scope string

// Search scope constants.
const (
	Local  Scope = "local"
	Online Scope = "online"
	// Both merges the in-memory collection with the remote page.
	Both Scope = "both"
)

// IsValid checks if the scope is one of the supported values.
func (s Scope) IsValid() bool {
	return s == Local || s == Online || s == Both
}

// UsesLocal reports whether the in-memory collection is searched.
func (s Scope) UsesLocal() bool { return s == Local || s == Both }

// UsesRemote reports whether the remote endpoint is queried.
func (s Scope) UsesRemote() bool { return s == Online || s == Both }
