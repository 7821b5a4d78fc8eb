package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoint(t *testing.T) {
	t.Run("accepts coordinates on the globe", func(t *testing.T) {
		p, err := NewPoint(54.5, 18.5)
		require.NoError(t, err)
		assert.Equal(t, 54.5, p.Lat)
		assert.Equal(t, 18.5, p.Lon)
	})

	t.Run("accepts the boundary values", func(t *testing.T) {
		_, err := NewPoint(90, 180)
		assert.NoError(t, err)
		_, err = NewPoint(-90, -180)
		assert.NoError(t, err)
	})

	t.Run("rejects latitude out of range", func(t *testing.T) {
		_, err := NewPoint(90.1, 0)
		assert.Error(t, err)
	})

	t.Run("rejects longitude out of range", func(t *testing.T) {
		_, err := NewPoint(0, -180.1)
		assert.Error(t, err)
	})
}

func TestPolygonValidate(t *testing.T) {
	t.Run("accepts a triangle", func(t *testing.T) {
		p := Polygon{{Lat: 1, Lon: 1}, {Lat: 1, Lon: 2}, {Lat: 2, Lon: 2}}
		assert.NoError(t, p.Validate())
	})

	t.Run("rejects fewer than three points", func(t *testing.T) {
		p := Polygon{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
		err := p.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 3")
	})

	t.Run("rejects a vertex off the globe", func(t *testing.T) {
		p := Polygon{{Lat: 1, Lon: 1}, {Lat: 1, Lon: 2}, {Lat: 91, Lon: 2}}
		err := p.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "point 2")
	})
}

func TestPolygonScan(t *testing.T) {
	t.Run("scans jsonb bytes", func(t *testing.T) {
		var p Polygon
		err := p.Scan([]byte(`[{"lat":1,"lon":1},{"lat":1,"lon":2},{"lat":2,"lon":2}]`))
		require.NoError(t, err)
		assert.Len(t, p, 3)
	})

	t.Run("scans nil to an empty polygon", func(t *testing.T) {
		var p Polygon
		require.NoError(t, p.Scan(nil))
		assert.Nil(t, p)
	})

	t.Run("round-trips through Value", func(t *testing.T) {
		p := Polygon{{Lat: 1, Lon: 1}, {Lat: 1, Lon: 2}, {Lat: 2, Lon: 2}}
		v, err := p.Value()
		require.NoError(t, err)

		var got Polygon
		require.NoError(t, json.Unmarshal(v.([]byte), &got))
		assert.Equal(t, p, got)
	})
}
