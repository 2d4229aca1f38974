package database

import "github.com/google/uuid"

// IDList converts ids to strings for use with an `= ANY($n::uuid[])` parameter.
func IDList(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}
