package scheduling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

func morningShift() *domain.ScheduledShift {
	return &domain.ScheduledShift{
		ID:         1,
		BusinessID: 1,
		Date:       "2025-03-01",
		StartTime:  "09:00:00",
		EndTime:    "13:00:00",
		BranchID:   3,
	}
}

func submissionWithEntry(employeeID int64, entry domain.ShiftSubmissionEntry) *domain.ShiftSubmission {
	return &domain.ShiftSubmission{
		ID:         employeeID,
		BusinessID: 1,
		EmployeeID: employeeID,
		Status:     domain.SubmissionStatusPending,
		Entries:    []domain.ShiftSubmissionEntry{entry},
	}
}

func matchingEntry() domain.ShiftSubmissionEntry {
	return domain.ShiftSubmissionEntry{
		Date:           "2025-03-01",
		StartTime:      "09:00:00",
		EndTime:        "13:00:00",
		BranchName:     "旗舰店",
		RolePreference: "收银",
		Notes:          "希望排早班",
	}
}

func TestMatchingEmployeesExactMatch(t *testing.T) {
	subs := []*domain.ShiftSubmission{
		submissionWithEntry(7, matchingEntry()),
	}

	got := MatchingEmployees(morningShift(), subs, "旗舰店")

	require.Len(t, got, 1)
	require.Equal(t, int64(7), got[0].EmployeeID)
	require.Equal(t, "收银", got[0].RolePreference)
	require.Equal(t, "希望排早班", got[0].Notes)
}

func TestMatchingEmployeesRequiresAllFourFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *domain.ShiftSubmissionEntry)
	}{
		{"different date", func(e *domain.ShiftSubmissionEntry) { e.Date = "2025-03-02" }},
		{"different start time", func(e *domain.ShiftSubmissionEntry) { e.StartTime = "10:00:00" }},
		{"different end time", func(e *domain.ShiftSubmissionEntry) { e.EndTime = "14:00:00" }},
		{"different branch name", func(e *domain.ShiftSubmissionEntry) { e.BranchName = "别的门店" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := matchingEntry()
			tt.mutate(&entry)

			got := MatchingEmployees(morningShift(), []*domain.ShiftSubmission{submissionWithEntry(7, entry)}, "旗舰店")
			require.Empty(t, got)
		})
	}
}

func TestMatchingEmployeesBranchRenameBreaksMatch(t *testing.T) {
	// 按值匹配的已知代价：门店改名后，改名前的提交不再匹配
	subs := []*domain.ShiftSubmission{
		submissionWithEntry(7, matchingEntry()),
	}

	require.Len(t, MatchingEmployees(morningShift(), subs, "旗舰店"), 1)
	require.Empty(t, MatchingEmployees(morningShift(), subs, "旗舰店（新址）"))
}

func TestMatchingEmployeesSkipsRejectedSubmissions(t *testing.T) {
	rejected := submissionWithEntry(7, matchingEntry())
	rejected.Status = domain.SubmissionStatusRejected

	approved := submissionWithEntry(8, matchingEntry())
	approved.Status = domain.SubmissionStatusApproved

	got := MatchingEmployees(morningShift(), []*domain.ShiftSubmission{rejected, approved}, "旗舰店")

	require.Len(t, got, 1)
	require.Equal(t, int64(8), got[0].EmployeeID)
}

func TestMatchingEmployeesOneEntryPerEmployee(t *testing.T) {
	first := matchingEntry()
	second := matchingEntry()
	second.RolePreference = "理货"

	submission := &domain.ShiftSubmission{
		ID:         1,
		BusinessID: 1,
		EmployeeID: 7,
		Status:     domain.SubmissionStatusPending,
		Entries:    []domain.ShiftSubmissionEntry{first, second},
	}
	later := submissionWithEntry(7, second)

	got := MatchingEmployees(morningShift(), []*domain.ShiftSubmission{submission, later}, "旗舰店")

	// 同一员工只返回一条，取第一条匹配的条目
	require.Len(t, got, 1)
	require.Equal(t, "收银", got[0].RolePreference)
}

func TestMatchingEmployeesPreservesSubmissionOrder(t *testing.T) {
	subs := []*domain.ShiftSubmission{
		submissionWithEntry(9, matchingEntry()),
		submissionWithEntry(7, matchingEntry()),
		submissionWithEntry(8, matchingEntry()),
	}

	got := MatchingEmployees(morningShift(), subs, "旗舰店")

	require.Len(t, got, 3)
	require.Equal(t, int64(9), got[0].EmployeeID)
	require.Equal(t, int64(7), got[1].EmployeeID)
	require.Equal(t, int64(8), got[2].EmployeeID)
}
