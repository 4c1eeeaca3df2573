package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndQuery(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddInfo("unrecognized_type", "type datetime is passed through", 2, "publishedAt")
	d.AddWarning("unknown_field", "field not in schema", 0, "titel", "title")
	d.AddError("invalid_path", "empty segment", 1, "a..b")

	assert.False(t, d.IsValid())
	assert.True(t, d.HasErrors())
	assert.Equal(t, []string{"invalid_path", "unknown_field", "unrecognized_type"}, d.Codes())

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t, "[rule 1] a..b: [invalid_path] empty segment", err.Error())
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "with suggestions",
			diag: Diagnostic{Code: "unknown_field", Message: "not in schema", Rule: 0, FieldPath: "titel", Suggestions: []string{"title"}},
			want: `[rule 0] titel: [unknown_field] not in schema (did you mean "title"?)`,
		},
		{
			name: "no rule",
			diag: Diagnostic{Code: "no_rules", Message: "nothing to map", Rule: NoRule},
			want: "[no_rules] nothing to map",
		},
		{
			name: "bare message",
			diag: Diagnostic{Message: "plain", Rule: NoRule},
			want: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.String())
		})
	}
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(9).String())
}
