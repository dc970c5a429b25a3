package snippet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractParams(t *testing.T) {
	tests := []struct {
		cmd  string
		want []string
	}{
		{"git status", nil},
		{"ssh {{host}}", []string{"host"}},
		{"scp {{file}} {{host}}:{{file}}", []string{"file", "host"}},
		{"echo {{ spaced }}", nil},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractParams(tt.cmd))
		})
	}
}

func TestSubstituteParams(t *testing.T) {
	got := SubstituteParams("scp {{file}} {{host}}:{{file}}", map[string]string{
		"file": "notes.txt",
		"host": "box",
	})
	assert.Equal(t, "scp notes.txt box:notes.txt", got)
}

func TestSubstituteParamsMissingValue(t *testing.T) {
	assert.Equal(t, "ssh {{host}}", SubstituteParams("ssh {{host}}", map[string]string{"user": "me"}))
}

func TestSubstituteParamsValueNotReexpanded(t *testing.T) {
	got := SubstituteParams("echo {{a}} {{b}}", map[string]string{"a": "{{b}}", "b": "x"})
	assert.Equal(t, "echo {{b}} x", got)
}
