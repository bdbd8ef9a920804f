package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/dianpu-dev/roster-console/backend/internal/config"
	"github.com/dianpu-dev/roster-console/backend/internal/domain"
	"github.com/dianpu-dev/roster-console/backend/internal/repository"
	"github.com/dianpu-dev/roster-console/backend/internal/scheduling"
	"github.com/dianpu-dev/roster-console/backend/internal/seed"
	"github.com/dianpu-dev/roster-console/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var businessID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机员工, 3: 插入随机班次, 4: 插入提交记录, 5: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&businessID, "business-id", 0, "目标商家 ID（操作 2、3、4 需要）")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if businessID <= 0 {
			slog.Error("请输入合法的商家 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			employee := utils.GenerateRandomEmployee(businessID, cfg.Email.UserDomain)
			if err := repo.CreateEmployee(employee); err != nil {
				slog.Error("无法插入员工", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入员工成功", slog.Int("count", n-cnt))
	case 3:
		if businessID <= 0 {
			slog.Error("请输入合法的商家 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的班次数量")
			return
		}

		// 班次必须挂在已有的门店下
		branches, err := repo.GetBranchesByBusinessID(businessID)
		if err != nil {
			slog.Error("无法获取门店列表", slog.String("error", err.Error()))
			return
		}
		if len(branches) == 0 {
			slog.Error("该商家下没有门店，请先创建门店")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			branch := branches[rand.Intn(len(branches))]
			startTime, endTime := utils.GenerateRandomTimeWindow()
			shift := &domain.ScheduledShift{
				BusinessID:        businessID,
				Date:              time.Now().AddDate(0, 0, rand.Intn(14)+1).Format(utils.DateLayout),
				StartTime:         startTime,
				EndTime:           endTime,
				BranchID:          branch.ID,
				RoleName:          "店员",
				RequiredHeadcount: int32(rand.Intn(3) + 1),
				Status:            domain.ShiftStatusPending,
				Priority:          domain.ShiftPriorityNormal,
			}
			shift.AssignmentSlots = scheduling.RegenerateSlots(nil, shift.RequiredHeadcount)

			if err := repo.CreateShift(shift); err != nil {
				slog.Error("无法插入班次", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入班次成功", slog.Int("count", n-cnt))
	case 4:
		if businessID <= 0 {
			slog.Error("请输入合法的商家 ID")
			return
		}

		// 为商家下的每个员工随机挑一个班次生成匹配的提交记录
		employees, err := repo.GetEmployeesByBusinessID(businessID)
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}

		shifts, err := repo.GetShiftsByBusinessID(businessID)
		if err != nil {
			slog.Error("无法获取班次列表", slog.String("error", err.Error()))
			return
		}
		if len(shifts) == 0 {
			slog.Error("该商家下没有班次，请先创建班次")
			return
		}

		cnt := 0
		for _, employee := range employees {
			shift := shifts[rand.Intn(len(shifts))]

			branch, err := repo.GetBranchByID(shift.BranchID)
			if err != nil {
				switch {
				case errors.Is(err, sql.ErrNoRows):
					slog.Error("班次对应的门店不存在", slog.Int64("branch_id", shift.BranchID))
				default:
					slog.Error("无法获取门店", slog.String("error", err.Error()))
				}
				continue
			}

			submission := &domain.ShiftSubmission{
				BusinessID: businessID,
				EmployeeID: employee.ID,
				Entries: []domain.ShiftSubmissionEntry{
					{
						Date:           shift.Date,
						StartTime:      shift.StartTime,
						EndTime:        shift.EndTime,
						BranchName:     branch.Name,
						RolePreference: "店员",
					},
				},
			}
			if err := repo.InsertShiftSubmission(submission); err != nil {
				slog.Error("无法插入提交记录", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入提交记录成功", slog.Int("count", cnt))
	case 5:
		seed.SeedDemoData(cfg, repo)
	default:
		slog.Error("指定的操作非法")
	}
}
