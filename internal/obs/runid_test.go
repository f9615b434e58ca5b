package obs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradforge/gradforge/internal/obs"
)

func TestNewRunID_NonEmpty(t *testing.T) {
	id := obs.NewRunID()
	require.NotEmpty(t, id)
}

func TestNewRunID_DistinctAcrossCalls(t *testing.T) {
	a := obs.NewRunID()
	b := obs.NewRunID()
	require.NotEqual(t, a, b)
}

func TestNewRunID_WellFormedUUID(t *testing.T) {
	id := obs.NewRunID()
	require.Len(t, id, 36)
	require.Equal(t, byte('-'), id[8])
	require.Equal(t, byte('-'), id[13])
	require.Equal(t, byte('-'), id[18])
	require.Equal(t, byte('-'), id[23])
}
