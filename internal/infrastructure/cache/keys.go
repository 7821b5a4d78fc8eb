package cache

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Keyspace namespaces cache keys per entity, e.g. "booking:{id}".
type Keyspace string

// Key joins the keyspace with the given path segments.
func (k Keyspace) Key(parts ...string) string {
	return string(k) + ":" + strings.Join(parts, ":")
}

// FilterKey derives a deterministic key for a filter result set from the
// canonical JSON encoding of the criteria. Criteria structs must have a
// stable field order, which encoding/json guarantees for structs.
func (k Keyspace) FilterKey(criteria any) string {
	data, err := json.Marshal(criteria)
	if err != nil {
		// Unmarshalable criteria still need a usable key; fall back to
		// the formatted value.
		data = []byte(fmt.Sprintf("%+v", criteria))
	}
	return fmt.Sprintf("%s:filter:%016x", string(k), xxhash.Sum64(data))
}
