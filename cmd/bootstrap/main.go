// Package main 系统初始化命令：建表并预置管理员账号
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层
	dataLayer, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 同步表结构
	if err := dataLayer.PgClient.AutoMigrate(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	fmt.Println("Database schema migrated.")

	// 4. 创建管理员账号（幂等，通过环境变量提供凭据）
	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("BOOKFORGE_ADMIN_EMAIL")))
	adminPassword := os.Getenv("BOOKFORGE_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		fmt.Println("BOOKFORGE_ADMIN_EMAIL / BOOKFORGE_ADMIN_PASSWORD not set, skipping admin creation.")
		fmt.Println("Bootstrap completed.")
		return
	}

	existing, err := dataLayer.UserRepo.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("failed to check admin existence: %v", err)
	}
	if existing != nil {
		fmt.Printf("Admin user %s already exists, skipping.\n", adminEmail)
		fmt.Println("Bootstrap completed.")
		return
	}

	admin := entity.NewUser(adminEmail, "Administrator")
	if err := admin.SetPassword(adminPassword); err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	if err := dataLayer.UserRepo.Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	settings := entity.DefaultSettings(admin.ID)
	if err := dataLayer.SettingsRepo.Create(ctx, settings); err != nil {
		log.Fatalf("failed to create admin settings: %v", err)
	}

	fmt.Printf("Admin user %s created.\n", adminEmail)
	fmt.Println("Bootstrap completed.")
}
