package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalUnmarshalJSON(t *testing.T) {
	type payload struct {
		Name Optional[string] `json:"name"`
	}

	t.Run("absent field stays absent", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.False(t, p.Name.Present)
		assert.False(t, p.Name.IsNull())
	})

	t.Run("explicit null is present but null", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &p))
		assert.True(t, p.Name.Present)
		assert.True(t, p.Name.IsNull())
	})

	t.Run("set value is present and carried", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Alice"}`), &p))
		v, ok := p.Name.Get()
		assert.True(t, ok)
		assert.Equal(t, "Alice", v)
	})
}

func TestOptionalConstructors(t *testing.T) {
	some := Some(42)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	null := Null[int]()
	assert.True(t, null.Present)
	assert.True(t, null.IsNull())
	_, ok = null.Get()
	assert.False(t, ok)

	var absent Optional[int]
	assert.False(t, absent.Present)
	_, ok = absent.Get()
	assert.False(t, ok)
}

func TestOptionalMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Some("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(data))

	data, err = json.Marshal(Null[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
