package identification

import (
	"testing"

	"worklane/pkg/types"

	"github.com/stretchr/testify/assert"
)

func att(id, name string) types.Attachment {
	return types.Attachment{ID: id, FileName: name}
}

func TestReconcileSlot(t *testing.T) {
	tests := []struct {
		name      string
		current   []types.Attachment
		deleteIDs map[string]bool
		added     []types.Attachment
		want      []types.Attachment
	}{
		{
			name: "no changes",
			current: []types.Attachment{att("a1", "passport.pdf")},
			want:    []types.Attachment{att("a1", "passport.pdf")},
		},
		{
			name:  "append new names in submission order",
			added: []types.Attachment{att("a1", "passport.pdf"), att("a2", "license.pdf")},
			want:  []types.Attachment{att("a1", "passport.pdf"), att("a2", "license.pdf")},
		},
		{
			name:    "same name replaces in place",
			current: []types.Attachment{att("a1", "passport.pdf"), att("a2", "visa.pdf")},
			added:   []types.Attachment{att("a3", "passport.pdf")},
			want:    []types.Attachment{att("a3", "passport.pdf"), att("a2", "visa.pdf")},
		},
		{
			name:      "delete then append",
			current:   []types.Attachment{att("a1", "a.pdf"), att("a2", "b.pdf")},
			deleteIDs: map[string]bool{"a1": true},
			added:     []types.Attachment{att("a3", "c.pdf")},
			want:      []types.Attachment{att("a2", "b.pdf"), att("a3", "c.pdf")},
		},
		{
			name:      "deleting a name being re-added keeps exactly the new ref",
			current:   []types.Attachment{att("a1", "passport.pdf")},
			deleteIDs: map[string]bool{"a1": true},
			added:     []types.Attachment{att("a2", "passport.pdf")},
			want:      []types.Attachment{att("a2", "passport.pdf")},
		},
		{
			name:  "duplicate names within one submission collapse to the last",
			added: []types.Attachment{att("a1", "passport.pdf"), att("a2", "passport.pdf")},
			want:  []types.Attachment{att("a2", "passport.pdf")},
		},
		{
			name:      "delete unknown ref is a no-op",
			current:   []types.Attachment{att("a1", "a.pdf")},
			deleteIDs: map[string]bool{"zz": true},
			want:      []types.Attachment{att("a1", "a.pdf")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcileSlot(tt.current, tt.deleteIDs, tt.added)
			assert.Equal(t, tt.want, got)

			seen := map[string]bool{}
			for _, a := range got {
				assert.False(t, seen[a.FileName], "duplicate file name %q", a.FileName)
				seen[a.FileName] = true
			}
		})
	}
}
