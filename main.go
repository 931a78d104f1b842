// @title Class Tracker API
// @version 1.0
// @description 教师班级管理后端：作业、评语、听写、拼写、作文与语法错误记录。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"class_tracker/internal/app"
	"class_tracker/internal/config"
	"class_tracker/pkg/database"
	"class_tracker/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	seedDemo := flag.Bool("seed-demo", false, "启动时重建 demo 账号及示例数据")
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly
	cfg.SeedDemo = *seedDemo

	// 迁移完成后直接退出
	if cfg.MigrateOnly {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		database.Close(db)
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer logger.Log.Sync()

	application.Run()
}
