package models

// Group is a set of members sharing expenses.
// Every balance and settlement computation is scoped to exactly one group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Currency is the ISO 4217 code every amount in the group is expressed in.
	// Cross-currency groups are not supported.
	Currency string

	// Members is the ordered member list. IDs are unique within the group.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is a participant of a group.
type Member struct {
	// ID identifies the member inside its group.
	ID string

	// DisplayName is the human-readable name shown in the UI.
	DisplayName string
}

// MemberIDs returns the IDs of g's members in order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// HasMember reports whether id belongs to g.
func (g *Group) HasMember(id string) bool {
	for _, m := range g.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}
