package fields

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Rating is always rendered with exactly one decimal place, e.g. 7.0.
type Rating float64

func (r Rating) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(r), 'f', 1, 64)), nil
}

// SlugList decodes comma separated query values like "drama,comedy".
type SlugList []string

func (s *SlugList) UnmarshalText(text []byte) error {
	var slugs []string
	for _, part := range strings.Split(string(text), ",") {
		if part = strings.TrimSpace(part); part != "" {
			slugs = append(slugs, part)
		}
	}
	*s = slugs
	return nil
}

// NullableString tells an omitted JSON key apart from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}
