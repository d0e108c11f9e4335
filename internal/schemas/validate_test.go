package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Analysis(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{
			name: "complete response",
			json: `{"summary":"s","optimized_skills":[{"id":"1","name":"Tech","skills":["Go"]}],
				"improved_experience":[{"id":"e1","description":["a"]}],
				"score":{"ats":80,"readability":70,"depth":60,"feedback":["x"]}}`,
		},
		{
			name:    "missing score",
			json:    `{"summary":"s","optimized_skills":[]}`,
			wantErr: true,
		},
		{
			name: "score out of range is left to the caller to clamp",
			json: `{"summary":"s","optimized_skills":[],"score":{"ats":101,"readability":120,"depth":-3,"feedback":[]}}`,
		},
		{
			name:    "score not a number",
			json:    `{"summary":"s","optimized_skills":[],"score":{"ats":"high","readability":0,"depth":0,"feedback":[]}}`,
			wantErr: true,
		},
		{
			name:    "rewrite without id",
			json:    `{"summary":"s","optimized_skills":[],"improved_projects":[{"description":[]}],"score":{"ats":1,"readability":1,"depth":1,"feedback":[]}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(AnalysisSchema, []byte(tt.json))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, AnalysisSchema, ve.Schema)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

func TestValidate_Document(t *testing.T) {
	assert.NoError(t, Validate(DocumentSchema, []byte(`{"personal_info":{"full_name":"Ada"},"skills":[{"id":"1","name":"Tech","skills":[]}],"experience":null}`)))
	assert.Error(t, Validate(DocumentSchema, []byte(`{"skills":[]}`)), "personal_info is required")
	assert.Error(t, Validate(DocumentSchema, []byte(`{"personal_info":{},"skills":"Go"}`)))
	assert.Error(t, Validate(DocumentSchema, []byte(`[]`)))
}

func TestValidate_Suggestions(t *testing.T) {
	assert.NoError(t, Validate(SuggestionsSchema, []byte(`{"technical":["Go"],"soft":["Empathy"]}`)))
	assert.Error(t, Validate(SuggestionsSchema, []byte(`{"technical":["Go"]}`)))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	require.Error(t, err)
	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)
	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "analysis",
		Errors: []FieldError{{Field: "score", Message: "score is required"}},
	}
	assert.Contains(t, err.Error(), "analysis validation failed")
	assert.Contains(t, err.Error(), "1. score: score is required")
}
