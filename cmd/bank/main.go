package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"bankledger/internal/cli"
	"bankledger/internal/config"
	"bankledger/internal/infrastructure/database"
	"bankledger/internal/service"
	"bankledger/pkg/idgen"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig("config/config.yaml")

	// 初始化 ID 生成器
	idgen.Init(1)

	// 初始化数据库
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 组装服务
	ledger := service.NewLedgerService(db, cfg)
	report := service.NewReportService(db)

	// 启动文本菜单
	menu := cli.NewMenu(ledger, report, bufio.NewReader(os.Stdin))
	if err := menu.Run(context.Background()); err != nil {
		log.Fatalf("运行异常: %v", err)
	}
}
