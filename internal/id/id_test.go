package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	var g Generator = UUID{}
	a, b := g.New(), g.New()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestSequence(t *testing.T) {
	g := &Sequence{Prefix: "txn"}
	assert.Equal(t, "txn-001", g.New())
	assert.Equal(t, "txn-002", g.New())

	var unnamed Sequence
	assert.Equal(t, "id-001", unnamed.New())
}

func TestShort(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3f2a9c1e-8d2b-4c1a-9e3f-1b2c3d4e5f60", "3f2a9c1e"},
		{"txn-001", "txn-001"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Short(tt.input), "Short(%q)", tt.input)
	}
}

func TestMatch(t *testing.T) {
	full := "3f2a9c1e-8d2b-4c1a-9e3f-1b2c3d4e5f60"
	assert.True(t, Match(full, full))
	assert.True(t, Match(full, "3f2a9c1e"))
	assert.True(t, Match(full, "3f2a"))
	assert.False(t, Match(full, "3f2"), "prefix too short")
	assert.False(t, Match(full, ""))
	assert.False(t, Match(full, "9999"))
}
