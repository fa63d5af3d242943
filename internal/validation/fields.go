package validation

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errNotStringOrList = errors.New("expected a string or an array of strings")

// StringOrList accepts either a single string or an array of strings.
// Null array elements decode as empty strings.
type StringOrList struct {
	Items  []string
	IsList bool
}

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errNotStringOrList
	}

	switch data[0] {
	case '"':
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return errNotStringOrList
		}
		s.Items, s.IsList = []string{single}, false
		return nil
	case '[':
		var items []*string
		if err := json.Unmarshal(data, &items); err != nil {
			return errNotStringOrList
		}
		s.Items, s.IsList = make([]string, 0, len(items)), true
		for _, item := range items {
			if item != nil {
				s.Items = append(s.Items, *item)
			} else {
				s.Items = append(s.Items, "")
			}
		}
		return nil
	case 'n':
		*s = StringOrList{}
		return nil
	}
	return errNotStringOrList
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	if !s.IsList {
		if len(s.Items) == 0 {
			return []byte("null"), nil
		}
		return json.Marshal(s.Items[0])
	}
	return json.Marshal(s.Items)
}

// Expected describes the accepted shapes in validation messages.
func (s *StringOrList) Expected() string {
	return "one of [string, array]"
}

// Values returns the non-empty items.
func (s StringOrList) Values() []string {
	out := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
