package dropbox

import (
	"encoding/json"
	"fmt"
)

// ErrorValue is one node of the tagged-union error the remote store returns.
// Wrapper tags such as "path", "path_lookup", "path_write", "from_lookup",
// "from_write", "to" and "reason" nest another ErrorValue under the field
// named after the tag; leaf tags stand alone.
type ErrorValue struct {
	Tag   string
	Inner *ErrorValue
}

// UnmarshalJSON decodes the union. The remote encodes a node either as a
// bare string tag or as an object carrying ".tag" plus, for wrapper tags, a
// field of the same name holding the nested value.
func (v *ErrorValue) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		v.Tag = tag
		v.Inner = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("error value is neither string nor object: %w", err)
	}

	tagRaw, ok := raw[".tag"]
	if !ok {
		return fmt.Errorf("error value has no .tag field")
	}
	if err := json.Unmarshal(tagRaw, &v.Tag); err != nil {
		return fmt.Errorf("error value .tag is not a string: %w", err)
	}

	v.Inner = nil
	if innerRaw, ok := raw[v.Tag]; ok {
		inner := &ErrorValue{}
		if err := json.Unmarshal(innerRaw, inner); err == nil && inner.Tag != "" {
			v.Inner = inner
		}
	}

	return nil
}

// Leaf follows wrapper nesting down to the innermost value.
func (v *ErrorValue) Leaf() *ErrorValue {
	if v.Inner == nil {
		return v
	}
	return v.Inner.Leaf()
}

func (v *ErrorValue) String() string {
	if v.Inner == nil {
		return v.Tag
	}
	return v.Tag + "/" + v.Inner.String()
}

// APIError is a failure reported by the remote API, carrying the decoded
// tagged-union error value and the human-readable summary.
type APIError struct {
	Summary string
	Value   ErrorValue
	Status  int
}

// apiErrorEnvelope mirrors the wire shape of an API failure response.
type apiErrorEnvelope struct {
	ErrorSummary string     `json:"error_summary"`
	Err          ErrorValue `json:"error"`
}

func (e *APIError) Error() string {
	if e.Summary != "" {
		return fmt.Sprintf("dropbox: %s", e.Summary)
	}
	return fmt.Sprintf("dropbox: %s", e.Value.String())
}

// decodeAPIError parses a failure response body into an APIError. Bodies
// that do not carry the JSON envelope still produce an APIError with an
// empty tag so callers map them uniformly.
func decodeAPIError(status int, body []byte) *APIError {
	var env apiErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &APIError{
			Summary: string(body),
			Status:  status,
		}
	}

	return &APIError{
		Summary: env.ErrorSummary,
		Value:   env.Err,
		Status:  status,
	}
}
