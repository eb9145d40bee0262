package store

import (
	"testing"

	"worklane/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSlotAttachmentIDs(t *testing.T) {
	t.Run("object column", func(t *testing.T) {
		raw := []byte(`{"identification":["a1","a2"],"trade_license":[]}`)
		ids, err := decodeSlotAttachmentIDs(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2"}, ids[types.SlotIdentification])
		assert.Empty(t, ids[types.SlotTradeLicense])
	})

	t.Run("legacy string-wrapped column", func(t *testing.T) {
		raw := []byte(`"{\"identification\":[\"a1\"],\"board_resolution\":[\"b1\"]}"`)
		ids, err := decodeSlotAttachmentIDs(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1"}, ids[types.SlotIdentification])
		assert.Equal(t, []string{"b1"}, ids[types.SlotBoardResolution])
	})

	t.Run("empty column", func(t *testing.T) {
		ids, err := decodeSlotAttachmentIDs(nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("malformed column", func(t *testing.T) {
		_, err := decodeSlotAttachmentIDs([]byte(`[1,2,3]`))
		assert.Error(t, err)
	})
}
