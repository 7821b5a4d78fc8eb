package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLListValidate(t *testing.T) {
	t.Run("accepts up to five urls", func(t *testing.T) {
		l := URLList{"a", "b", "c", "d", "e"}
		assert.NoError(t, l.Validate())
	})

	t.Run("rejects a sixth url", func(t *testing.T) {
		l := URLList{"a", "b", "c", "d", "e", "f"}
		err := l.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at most 5")
	})

	t.Run("rejects an empty url", func(t *testing.T) {
		l := URLList{"a", ""}
		assert.Error(t, l.Validate())
	})

	t.Run("rejects an overlong url", func(t *testing.T) {
		l := URLList{strings.Repeat("x", MaxThumbnailURLLen+1)}
		assert.Error(t, l.Validate())
	})

	t.Run("an empty list is valid", func(t *testing.T) {
		assert.NoError(t, URLList{}.Validate())
		assert.NoError(t, URLList(nil).Validate())
	})
}

func TestURLListScan(t *testing.T) {
	t.Run("scans jsonb bytes", func(t *testing.T) {
		var l URLList
		require.NoError(t, l.Scan([]byte(`["a","b"]`)))
		assert.Equal(t, URLList{"a", "b"}, l)
	})

	t.Run("scans nil to an empty list", func(t *testing.T) {
		var l URLList
		require.NoError(t, l.Scan(nil))
		assert.NotNil(t, l)
		assert.Empty(t, l)
	})
}

func TestURLListValue(t *testing.T) {
	t.Run("nil persists as an empty array", func(t *testing.T) {
		v, err := URLList(nil).Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", string(v.([]byte)))
	})
}
