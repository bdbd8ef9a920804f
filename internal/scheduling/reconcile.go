package scheduling

import (
	"github.com/dianpu-dev/roster-console/backend/internal/domain"
)

// Candidate 表示一个对某班次提交过空闲时间的员工
type Candidate struct {
	EmployeeID     int64  `json:"employeeID"`
	RolePreference string `json:"rolePreference"`
	Notes          string `json:"notes"`
}

// MatchingEmployees 找出提交记录与指定班次匹配的员工，供手动指派时参考
//
// 匹配按值进行而不是按外键：提交条目的日期、起止时间和门店名称与班次完全
// 相同才算匹配。提交是在班次定稿之前收集的，所以这里只能按值关联；
// 副作用是门店改名后，改名前的提交将不再匹配到任何班次
//
// 已被驳回的提交不参与匹配（待审核和已通过的都算候选）；
// 每个员工最多返回一条，取其第一条匹配的条目，顺序与 submissions 一致
func MatchingEmployees(shift *domain.ScheduledShift, submissions []*domain.ShiftSubmission, branchName string) []Candidate {
	candidates := make([]Candidate, 0)
	seen := make(map[int64]bool)

	for _, submission := range submissions {
		if submission.Status == domain.SubmissionStatusRejected {
			continue
		}
		if seen[submission.EmployeeID] {
			continue
		}

		for _, entry := range submission.Entries {
			if entry.Date != shift.Date {
				continue
			}
			if entry.StartTime != shift.StartTime || entry.EndTime != shift.EndTime {
				continue
			}
			if entry.BranchName != branchName {
				continue
			}

			candidates = append(candidates, Candidate{
				EmployeeID:     submission.EmployeeID,
				RolePreference: entry.RolePreference,
				Notes:          entry.Notes,
			})
			seen[submission.EmployeeID] = true
			break
		}
	}

	return candidates
}
