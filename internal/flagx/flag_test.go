package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-a", ":8080", "-b", "memory"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", ":8080"},
		},
		{
			name:         "equals form",
			args:         []string{"-config=server.json", "-a", ":8080"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=server.json"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-d", "postgres://x"},
			allowedFlags: []string{"-c", "-d"},
			want:         []string{"-c", "-d", "postgres://x"},
		},
		{
			name:         "repeated flag keeps order",
			args:         []string{"-l", "info", "-l", "debug"},
			allowedFlags: []string{"-l"},
			want:         []string{"-l", "info", "-l", "debug"},
		},
		{
			name:         "empty",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	assert.Equal(t, "/etc/recipebox.json", JsonConfigFlags([]string{"-c", "/etc/recipebox.json"}))
	assert.Equal(t, "long.json", JsonConfigFlags([]string{"-a", ":9000", "-config", "long.json"}))
	assert.Equal(t, "2.json", JsonConfigFlags([]string{"-c", "1.json", "-config=2.json"}))
	assert.Empty(t, JsonConfigFlags([]string{"-x", "1"}))
}
