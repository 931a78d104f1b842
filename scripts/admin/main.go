// 班级管理维护脚本
//
// 用法: go run ./scripts/admin <command> [flags]
// 配置目录默认 configs，可通过 CLASS_TRACKER_CONFIG_DIR 指定。

package main

import (
	"log"
	"os"

	"class_tracker/internal/config"
	"class_tracker/pkg/database"
	"class_tracker/pkg/logger"
)

func main() {
	configDir := os.Getenv("CLASS_TRACKER_CONFIG_DIR")
	if configDir == "" {
		configDir = "configs"
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("无法读取配置: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	cli := newCommandLine(db)
	err = cli.run(os.Args)
	database.Close(db)
	if err != nil {
		if err != errHelp {
			log.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}
