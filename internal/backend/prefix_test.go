package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "B", EscapeLike("B"))
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\`, EscapeLike(`c:\`))
}

func TestHasPrefixFold(t *testing.T) {
	tests := []struct {
		name, prefix string
		want         bool
	}{
		{"Banana Bread", "B", true},
		{"banana bread", "B", true},
		{"Banana Bread", "ban", true},
		{"Apple Pie", "B", false},
		{"B", "Br", false},
		{"Anything", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasPrefixFold(tt.name, tt.prefix), "%q/%q", tt.name, tt.prefix)
	}
}

func TestClient_CloseJoinsErrors(t *testing.T) {
	calls := 0
	c := NewClient(nil, nil, func() error { calls++; return nil }, func() error { calls++; return assert.AnError })

	err := c.Close()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 2, calls)
}
