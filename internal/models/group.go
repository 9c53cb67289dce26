package models

// DefaultGroupType is applied when a create request omits the group type.
const DefaultGroupType = "General"

// Member is an identity snapshot inside a group's member list.
type Member struct {
	Identity
}

// Group represents a named collection of members used to scope which
// expenses belong together. The creator is always present in Members and
// is the only user allowed to delete the group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	Name string `json:"name"`

	// GroupType is a free-form label ("Travel", "Home", ...).
	// Defaults to DefaultGroupType.
	GroupType string `json:"groupType"`

	// Members holds member snapshots in insertion order, unique by email.
	Members []Member `json:"members"`

	// Creator is the snapshot of the user who created the group.
	Creator Member `json:"creator"`

	// UpdatedAt is the Unix timestamp of the last membership change.
	UpdatedAt int64 `json:"updatedAt"`

	// Version is the optimistic-concurrency stamp compared on write.
	Version int64 `json:"version"`
}

// MemberByEmail returns the index of the member with the given email,
// or -1 if no member matches. Email is the uniqueness key for membership.
func (g *Group) MemberByEmail(email string) int {
	for i := range g.Members {
		if g.Members[i].Email == email {
			return i
		}
	}
	return -1
}
