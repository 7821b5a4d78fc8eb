package cache

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyspaceKey(t *testing.T) {
	ks := Keyspace("booking")
	id := uuid.New()

	assert.Equal(t, "booking:"+id.String(), ks.Key(id.String()))
	assert.Equal(t, "booking:a:b", ks.Key("a", "b"))
}

func TestKeyspaceFilterKey(t *testing.T) {
	ks := Keyspace("camping")

	type criteria struct {
		UserID *uuid.UUID `json:"user_id,omitempty"`
		Booked *bool      `json:"booked,omitempty"`
	}

	t.Run("identical criteria derive identical keys", func(t *testing.T) {
		id := uuid.New()
		booked := true
		a := ks.FilterKey(criteria{UserID: &id, Booked: &booked})
		b := ks.FilterKey(criteria{UserID: &id, Booked: &booked})
		assert.Equal(t, a, b)
	})

	t.Run("different criteria derive different keys", func(t *testing.T) {
		booked := true
		notBooked := false
		a := ks.FilterKey(criteria{Booked: &booked})
		b := ks.FilterKey(criteria{Booked: &notBooked})
		assert.NotEqual(t, a, b)
	})

	t.Run("keys stay inside the keyspace", func(t *testing.T) {
		key := ks.FilterKey(criteria{})
		assert.Contains(t, key, "camping:filter:")
	})
}
