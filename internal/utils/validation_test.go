package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func TestValidateShiftDate(t *testing.T) {
	require.NoError(t, ValidateShiftDate("2025-03-01"))
	require.Error(t, ValidateShiftDate("2025/03/01"))
	require.Error(t, ValidateShiftDate("01-03-2025"))
	require.Error(t, ValidateShiftDate(""))
}

func TestValidateShiftTimeWindow(t *testing.T) {
	require.NoError(t, ValidateShiftTimeWindow("09:00:00", "17:00:00"))
	require.Error(t, ValidateShiftTimeWindow("17:00:00", "09:00:00"))
	require.Error(t, ValidateShiftTimeWindow("09:00:00", "09:00:00"))
	require.Error(t, ValidateShiftTimeWindow("9:00", "17:00:00"))
	require.Error(t, ValidateShiftTimeWindow("09:00:00", "25:00:00"))
}

func TestValidateSubmissionEntries(t *testing.T) {
	valid := domain.ShiftSubmissionEntry{
		Date:       "2025-03-01",
		StartTime:  "09:00:00",
		EndTime:    "13:00:00",
		BranchName: "旗舰店",
	}

	require.NoError(t, ValidateSubmissionEntries([]domain.ShiftSubmissionEntry{valid}))
	require.Error(t, ValidateSubmissionEntries(nil))

	noBranch := valid
	noBranch.BranchName = ""
	require.Error(t, ValidateSubmissionEntries([]domain.ShiftSubmissionEntry{noBranch}))

	badWindow := valid
	badWindow.EndTime = "08:00:00"
	require.Error(t, ValidateSubmissionEntries([]domain.ShiftSubmissionEntry{badWindow}))
}
