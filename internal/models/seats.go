package models

import (
	"database/sql/driver"
	"encoding/json"
)

// SeatList is the ordered sequence of category labels bought in one
// booking, one entry per seat. The order is whatever the caller sent and
// is preserved for display; grouping for capacity checks happens via
// CountByCategory. Stored as a JSON text column.
type SeatList []string

func (s *SeatList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = SeatList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		*s = SeatList{}
		return nil
	}

	var parsed []string
	if len(raw) == 0 || json.Unmarshal(raw, &parsed) != nil {
		*s = SeatList{}
		return nil
	}
	*s = parsed
	return nil
}

func (s SeatList) Value() (driver.Value, error) {
	if s == nil {
		s = SeatList{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// CountByCategory groups the seat labels into per-category counts.
func (s SeatList) CountByCategory() map[string]int {
	counts := make(map[string]int, len(s))
	for _, label := range s {
		counts[label]++
	}
	return counts
}
