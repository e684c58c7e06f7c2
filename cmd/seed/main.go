package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机面试官, 2: 插入默认招新配置和时间段, 3: 插入随机申请人)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	_ = godotenv.Load()

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
			slog.Error("请输入合法的面试官数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				reviewer, err := utils.GenerateRandomReviewer(cfg.Seed.Reviewer.Password, cfg.Email.ReviewerDomain)
				if err != nil {
					slog.Error("无法生成随机面试官", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateReviewer(reviewer); err != nil {
					slog.Error("无法插入面试官", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入面试官成功", slog.Int("count", n-cnt))
		}
	case 2:
		seed.SeedDefaults(repo)
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的申请人数量")
			return
		}

		// 随机申请人的简答题答案和勾选的时间段都依赖已有的招新配置和时间段
		cfg, err := repo.GetRecruitmentConfig()
		if err != nil {
			slog.Error("无法获取招新配置，请先执行 op=2", slog.String("error", err.Error()))
			return
		}

		slots, err := repo.GetActiveTimeSlots()
		if err != nil {
			slog.Error("无法获取时间段", slog.String("error", err.Error()))
			return
		}
		if len(slots) == 0 {
			slog.Error("没有可用的时间段，请先执行 op=2")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			applicant := utils.GenerateRandomApplicant(slots, cfg.FRQQuestions)
			if err := repo.InsertApplicant(applicant); err != nil {
				slog.Error("无法插入申请人", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入申请人成功", slog.Int("count", n-cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
