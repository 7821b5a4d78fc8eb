package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `gorm:"column:lat" json:"lat"`
	Lon float64 `gorm:"column:lon" json:"lon"`
}

// NewPoint creates a validated Point.
func NewPoint(lat, lon float64) (Point, error) {
	p := Point{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate checks the coordinate bounds.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Lon)
	}
	return nil
}

// MinPolygonPoints is the minimum number of vertices for a closed camp
// or area boundary.
const MinPolygonPoints = 3

// Polygon is an ordered sequence of at least MinPolygonPoints points. It
// is persisted as a jsonb column.
type Polygon []Point

// Validate checks the vertex count and every coordinate.
func (p Polygon) Validate() error {
	if len(p) < MinPolygonPoints {
		return fmt.Errorf("polygon needs at least %d points, got %d", MinPolygonPoints, len(p))
	}
	for i, pt := range p {
		if err := pt.Validate(); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	return nil
}

// Value implements driver.Valuer.
func (p Polygon) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *Polygon) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	default:
		return errors.New("unsupported polygon source type")
	}
}
