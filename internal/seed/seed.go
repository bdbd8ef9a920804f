package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/config"
	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/repository"
	"github.com/dianpu-dev/roster-console/backend/internal/scheduling"
	"github.com/dianpu-dev/roster-console/backend/internal/utils"
)

var demoBranchNames = []string{"中山路店", "江南西店", "北京路店"}

// SeedDemoData 插入一套可以直接登录体验的演示数据：
// 一个商家、三家门店、一批员工、一个商家管理员账号、未来一周的班次和若干提交记录
func SeedDemoData(cfg *config.Config, r *repository.Repository) {
	business := &domain.Business{Name: "示例咖啡"}
	if err := r.CreateBusiness(business); err != nil {
		slog.Error("无法插入商家", "error", err)
		return
	}
	slog.Info("插入商家成功", "business_id", business.ID, "name", business.Name)

	branches := make([]*domain.Branch, 0, len(demoBranchNames))
	for _, name := range demoBranchNames {
		branch := &domain.Branch{BusinessID: business.ID, Name: name}
		if err := r.CreateBranch(branch); err != nil {
			slog.Error("无法插入门店", "name", name, "error", err)
			return
		}
		branches = append(branches, branch)
	}
	slog.Info("插入门店成功", "count", len(branches))

	employees := make([]*domain.Employee, 0, 10)
	for i := 0; i < 10; i++ {
		employee := utils.GenerateRandomEmployee(business.ID, cfg.Email.UserDomain)
		if err := r.CreateEmployee(employee); err != nil {
			slog.Error("无法插入员工", "error", err)
			continue
		}
		employees = append(employees, employee)
	}
	slog.Info("插入员工成功", "count", len(employees))

	// 商家管理员账号
	admin, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
	if err != nil {
		slog.Error("无法生成管理员账号", "error", err)
		return
	}
	if err := r.CreateUser(admin); err != nil {
		slog.Error("无法插入管理员账号", "error", err)
		return
	}
	if err := r.CreateMembership(&domain.BusinessMembership{
		UserID:     admin.ID,
		BusinessID: business.ID,
		Role:       domain.RoleBusinessAdmin,
	}); err != nil {
		slog.Error("无法插入成员关系", "error", err)
		return
	}
	slog.Info("插入商家管理员成功", "username", admin.Username)

	// 未来一周的班次，每家门店每天一个，随机指派一半
	shiftCount := 0
	for day := 0; day < 7; day++ {
		date := time.Now().AddDate(0, 0, day+1).Format(utils.DateLayout)
		for _, branch := range branches {
			startTime, endTime := utils.GenerateRandomTimeWindow()
			shift := &domain.ScheduledShift{
				BusinessID:        business.ID,
				Date:              date,
				StartTime:         startTime,
				EndTime:           endTime,
				BranchID:          branch.ID,
				RoleName:          "店员",
				RequiredHeadcount: int32(rand.Intn(3) + 1),
				Status:            domain.ShiftStatusPending,
				Priority:          domain.ShiftPriorityNormal,
			}
			if rand.Intn(2) == 0 && len(employees) > 0 {
				employee := employees[rand.Intn(len(employees))]
				shift.EmployeeID = &employee.ID
			}
			shift.AssignmentSlots = scheduling.RegenerateSlots(nil, shift.RequiredHeadcount)
			if shift.EmployeeID != nil {
				shift.AssignmentSlots[0].EmployeeID = shift.EmployeeID
			}
			if err := r.CreateShift(shift); err != nil {
				slog.Error("无法插入班次", "date", date, "branch", branch.Name, "error", err)
				continue
			}
			shiftCount++
		}
	}
	slog.Info("插入班次成功", "count", shiftCount)

	// 为一部分员工插入提交记录，其中部分条目与已有班次完全匹配
	shifts, err := r.GetShiftsByBusinessID(business.ID)
	if err != nil {
		slog.Error("无法获取班次列表", "error", err)
		return
	}
	branchNames := make(map[int64]string, len(branches))
	for _, branch := range branches {
		branchNames[branch.ID] = branch.Name
	}

	submissionCount := 0
	for _, employee := range employees {
		if rand.Intn(2) == 0 || len(shifts) == 0 {
			continue
		}
		shift := shifts[rand.Intn(len(shifts))]
		submission := &domain.ShiftSubmission{
			BusinessID: business.ID,
			EmployeeID: employee.ID,
			Entries: []domain.ShiftSubmissionEntry{
				{
					Date:           shift.Date,
					StartTime:      shift.StartTime,
					EndTime:        shift.EndTime,
					BranchName:     branchNames[shift.BranchID],
					RolePreference: "店员",
					Notes:          fmt.Sprintf("%s 有空", shift.Date),
				},
			},
		}
		if err := r.InsertShiftSubmission(submission); err != nil {
			slog.Error("无法插入提交记录", "employee_id", employee.ID, "error", err)
			continue
		}
		submissionCount++
	}
	slog.Info("插入提交记录成功", "count", submissionCount)
}
