package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConflictErrorCarriesConflicts(t *testing.T) {
	conflicts := []*ScheduledShift{
		{ID: 1, Date: "2026-09-01", BranchID: 3},
		{ID: 2, Date: "2026-09-01", BranchID: 3},
	}

	err := &ConflictError{Conflicts: conflicts}
	require.NotEmpty(t, err.Error())

	// 调用方需要能取回冲突班次列表来展示给用户
	var conflictErr *ConflictError
	require.True(t, errors.As(error(err), &conflictErr))
	require.Len(t, conflictErr.Conflicts, 2)
	require.Equal(t, int64(1), conflictErr.Conflicts[0].ID)
}
