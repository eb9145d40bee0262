package identification

import "worklane/pkg/types"

// reconcileSlot computes a slot's next attachment sequence. Refs staged for
// deletion are dropped first, then each newly stored attachment either
// replaces the surviving attachment bearing the same file name (keeping its
// position) or is appended. The result holds at most one attachment per
// distinct file name, with first-seen name order preserved.
func reconcileSlot(current []types.Attachment, deleteIDs map[string]bool, added []types.Attachment) []types.Attachment {
	next := make([]types.Attachment, 0, len(current)+len(added))
	for _, att := range current {
		if deleteIDs[att.ID] {
			continue
		}
		next = append(next, att)
	}

	for _, att := range added {
		replaced := false
		for i := range next {
			if next[i].FileName == att.FileName {
				next[i] = att
				replaced = true
				break
			}
		}
		if !replaced {
			next = append(next, att)
		}
	}

	return next
}
