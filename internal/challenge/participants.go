package challenge

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DecodeParticipants reads the legacy participant column, which was written either as a
// JSON array of ids (numbers or numeric strings) or as that array serialized into a string.
// Anything it cannot read decodes to an empty list. Duplicates are dropped, first one wins.
func DecodeParticipants(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int64{}
	}

	var nested string
	if err := json.Unmarshal([]byte(raw), &nested); err == nil {
		return DecodeParticipants(nested)
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []int64{}
	}

	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id, ok := decodeID(item)
		if !ok {
			return []int64{}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func decodeID(item json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(item, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}
