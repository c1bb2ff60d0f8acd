package graph

import (
	"github.com/tbrumbaugh5396/graph-canvas/errors"
)

// Role names one end of an edge: tail (source side) or head (target side).
type Role string

const (
	RoleTail Role = "tail"
	RoleHead Role = "head"
)

// ErrLastMember is returned when a removal would empty a member set. Tail
// and head sets are each non-empty after every accepted mutation.
var ErrLastMember = errors.New("cannot remove the last member of an edge end")

// Members returns the member id list for the given role.
func (e *Edge) Members(role Role) []string {
	if role == RoleTail {
		return e.SourceIDs
	}
	return e.TargetIDs
}

// HasMember reports whether id is already a member of the given end.
func (e *Edge) HasMember(role Role, id string) bool {
	for _, m := range e.Members(role) {
		if m == id {
			return true
		}
	}
	return false
}

// AddMember adds id to the given end. Membership has set semantics: adding
// an id that is already present is a no-op. Returns whether the set changed.
func (e *Edge) AddMember(role Role, id string) bool {
	if e.HasMember(role, id) {
		return false
	}
	if role == RoleTail {
		e.SourceIDs = append(e.SourceIDs, id)
	} else {
		e.TargetIDs = append(e.TargetIDs, id)
	}
	e.syncMainline()
	return true
}

// RemoveMember removes id from the given end. Removing the sole remaining
// member is rejected and leaves the set unchanged.
func (e *Edge) RemoveMember(role Role, id string) error {
	members := e.Members(role)
	idx := -1
	for i, m := range members {
		if m == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	if len(members) == 1 {
		return ErrLastMember
	}
	members = append(members[:idx], members[idx+1:]...)
	if role == RoleTail {
		e.SourceIDs = members
	} else {
		e.TargetIDs = members
	}
	e.syncMainline()
	return nil
}

// SetEndpoint replaces the mainline endpoint of the given end, keeping the
// member set consistent (the old mainline id is swapped for the new one).
func (e *Edge) SetEndpoint(role Role, id string) {
	if role == RoleTail {
		e.replaceMember(&e.SourceIDs, e.SourceID, id)
		e.SourceID = id
	} else {
		e.replaceMember(&e.TargetIDs, e.TargetID, id)
		e.TargetID = id
	}
}

func (e *Edge) replaceMember(members *[]string, old, next string) {
	for i, m := range *members {
		if m == next {
			// Already a member: drop the old mainline entry instead of duplicating,
			// unless that would empty the set.
			if old != next && len(*members) > 1 {
				e.dropMember(members, old)
			}
			return
		}
		if m == old {
			(*members)[i] = next
			return
		}
	}
	*members = append(*members, next)
}

func (e *Edge) dropMember(members *[]string, id string) {
	for i, m := range *members {
		if m == id {
			*members = append((*members)[:i], (*members)[i+1:]...)
			return
		}
	}
}

// syncMainline keeps SourceID/TargetID pointing at the first member of each
// set, matching the backend's normalization.
func (e *Edge) syncMainline() {
	if len(e.SourceIDs) > 0 && !e.HasMember(RoleTail, e.SourceID) {
		e.SourceID = e.SourceIDs[0]
	}
	if len(e.TargetIDs) > 0 && !e.HasMember(RoleHead, e.TargetID) {
		e.TargetID = e.TargetIDs[0]
	}
}
