package graph

// EdgePatch is a partial edge update shared by the interaction core, the
// HTTP store client, and the server handlers. Nil/empty fields are left
// untouched.
type EdgePatch struct {
	SourceID        *string  `json:"source_id,omitempty"`
	TargetID        *string  `json:"target_id,omitempty"`
	AddSourceIDs    []string `json:"add_source_ids,omitempty"`
	AddTargetIDs    []string `json:"add_target_ids,omitempty"`
	RemoveSourceIDs []string `json:"remove_source_ids,omitempty"`
	RemoveTargetIDs []string `json:"remove_target_ids,omitempty"`
	Text            *string  `json:"text,omitempty"`
}

// Apply mutates e according to the patch. Member removals that would empty
// a set return ErrLastMember and leave the edge unchanged from that point
// on; endpoint replacement and member additions never fail.
func (p EdgePatch) Apply(e *Edge) error {
	if p.SourceID != nil {
		e.SetEndpoint(RoleTail, *p.SourceID)
	}
	if p.TargetID != nil {
		e.SetEndpoint(RoleHead, *p.TargetID)
	}
	for _, id := range p.AddSourceIDs {
		e.AddMember(RoleTail, id)
	}
	for _, id := range p.AddTargetIDs {
		e.AddMember(RoleHead, id)
	}
	for _, id := range p.RemoveSourceIDs {
		if err := e.RemoveMember(RoleTail, id); err != nil {
			return err
		}
	}
	for _, id := range p.RemoveTargetIDs {
		if err := e.RemoveMember(RoleHead, id); err != nil {
			return err
		}
	}
	if p.Text != nil {
		e.Text = *p.Text
	}
	return nil
}
