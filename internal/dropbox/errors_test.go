package dropbox

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantTag  string
		wantLeaf string
	}{
		{
			name:     "bare string tag",
			input:    `"not_found"`,
			wantTag:  "not_found",
			wantLeaf: "not_found",
		},
		{
			name:     "leaf object",
			input:    `{".tag": "insufficient_space"}`,
			wantTag:  "insufficient_space",
			wantLeaf: "insufficient_space",
		},
		{
			name:     "single wrapper",
			input:    `{".tag": "path", "path": {".tag": "not_found"}}`,
			wantTag:  "path",
			wantLeaf: "not_found",
		},
		{
			name:     "double wrapper",
			input:    `{".tag": "path_lookup", "path_lookup": {".tag": "path", "path": {".tag": "not_file"}}}`,
			wantTag:  "path_lookup",
			wantLeaf: "not_file",
		},
		{
			name:     "wrapper with string inner",
			input:    `{".tag": "from_lookup", "from_lookup": "not_found"}`,
			wantTag:  "from_lookup",
			wantLeaf: "not_found",
		},
		{
			name:     "unrelated sibling fields ignored",
			input:    `{".tag": "malformed_path", "malformed_path": null}`,
			wantTag:  "malformed_path",
			wantLeaf: "malformed_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v ErrorValue
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.Equal(t, tt.wantTag, v.Tag)
			assert.Equal(t, tt.wantLeaf, v.Leaf().Tag)
		})
	}
}

func TestErrorValue_UnmarshalJSON_Invalid(t *testing.T) {
	var v ErrorValue
	assert.Error(t, json.Unmarshal([]byte(`42`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"no_tag": true}`), &v))
}

func TestDecodeAPIError(t *testing.T) {
	body := []byte(`{"error_summary": "path/not_found/..", "error": {".tag": "path", "path": {".tag": "not_found"}}}`)

	apiErr := decodeAPIError(409, body)
	require.NotNil(t, apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "path/not_found/..", apiErr.Summary)
	assert.Equal(t, "not_found", apiErr.Value.Leaf().Tag)
	assert.Equal(t, "dropbox: path/not_found/..", apiErr.Error())
}

func TestDecodeAPIError_NonJSONBody(t *testing.T) {
	apiErr := decodeAPIError(400, []byte("Error in call to API function"))
	require.NotNil(t, apiErr)
	assert.Equal(t, "", apiErr.Value.Tag)
	assert.Contains(t, apiErr.Error(), "Error in call")
}

func TestErrorValue_String(t *testing.T) {
	v := ErrorValue{
		Tag: "path",
		Inner: &ErrorValue{
			Tag: "not_found",
		},
	}
	assert.Equal(t, "path/not_found", v.String())
}
