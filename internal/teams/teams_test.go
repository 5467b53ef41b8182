package teams

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func TestCanonicalLegacyCodes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LA", "LAR"},
		{"STL", "LAR"},
		{"SD", "LAC"},
		{"OAK", "LV"},
		{"JAC", "JAX"},
		{"KC", "KC"},
		{"buf", "BUF"},
		{" NE ", "NE"},
		{"New York Jets", "NYJ"},
		{"Washington Football Team", "WAS"},
	}
	for _, tt := range tests {
		got, err := Canonical(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCanonicalUnknown(t *testing.T) {
	_, err := Canonical("ZZZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownTeam))

	_, err = Canonical("")
	assert.Error(t, err)
}

func TestResolverCountsSkips(t *testing.T) {
	logger := logrus.New()
	r := NewResolver(logger)

	code, ok := r.Resolve("OAK")
	require.True(t, ok)
	assert.Equal(t, "LV", code)
	assert.Equal(t, 0, r.Skips())

	_, ok = r.Resolve("NOPE")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Skips())

	_, _, ok = r.ResolvePair("BUF", "???")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Skips())
}
