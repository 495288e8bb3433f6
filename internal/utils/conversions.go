package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes a JSON string or number into its string form.
// The backend is not consistent about ids: userId may arrive as 7 or "7".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// NumericOrString returns a json.Number when s is numeric so it is sent as a
// JSON number, and s unchanged otherwise.
func NumericOrString(s string) any {
	s = strings.TrimSpace(s)
	var n float64
	if err := json.Unmarshal([]byte(s), &n); err == nil {
		return json.Number(s)
	}
	return s
}

// AtoiOrZero parses s as an int, returning 0 when it is not a number.
func AtoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
