package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 100)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 25, p.PerPage)
	require.Equal(t, 100, p.Total)
	require.Equal(t, 4, p.TotalPages)
	require.Equal(t, 0, p.Offset())
}

func TestNewPaginationRoundsPagesUp(t *testing.T) {
	p := NewPagination(3, 10, 31)
	require.Equal(t, 4, p.TotalPages)
	require.Equal(t, 20, p.Offset())
}

func TestNewPaginationEmptyResult(t *testing.T) {
	p := NewPagination(1, 10, 0)
	require.Equal(t, 0, p.TotalPages)
}
