package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// MaxThumbnails caps the number of thumbnail URLs per camping.
	MaxThumbnails = 5
	// MaxThumbnailURLLen caps the length of a single thumbnail URL.
	MaxThumbnailURLLen = 255
)

// URLList is a bounded list of thumbnail URLs persisted as jsonb.
type URLList []string

// Validate checks the list size and the length of every URL.
func (l URLList) Validate() error {
	if len(l) > MaxThumbnails {
		return fmt.Errorf("at most %d thumbnails allowed, got %d", MaxThumbnails, len(l))
	}
	for i, u := range l {
		if u == "" {
			return fmt.Errorf("thumbnail %d is empty", i)
		}
		if len(u) > MaxThumbnailURLLen {
			return fmt.Errorf("thumbnail %d exceeds %d characters", i, MaxThumbnailURLLen)
		}
	}
	return nil
}

// Value implements driver.Valuer.
func (l URLList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(URLList{})
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *URLList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = URLList{}
		return nil
	default:
		return errors.New("unsupported url list source type")
	}
}
