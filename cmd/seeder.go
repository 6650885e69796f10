package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/workorder-management/internal"
	userDatamodel "github.com/frahmantamala/workorder-management/internal/core/datamodel/user"
	workorderDatamodel "github.com/frahmantamala/workorder-management/internal/core/datamodel/workorder"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users and work orders for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			db.Exec("DELETE FROM work_order_logs")
			db.Exec("DELETE FROM work_orders")
			db.Exec("DELETE FROM users")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		users := []userDatamodel.User{
			{Username: internal.SuperAdminUsername, Name: "系统管理员", Department: "管理部", Role: internal.SuperAdminRoleName},
			{Username: "zhangwei", Name: "张伟", Department: "管理部", Role: internal.AdminRoleName},
			{Username: "lina", Name: "李娜", Department: "技术部", Role: "工程师"},
			{Username: "wangfang", Name: "王芳", Department: "运营部", Role: "操作员"},
			{Username: "liuyang", Name: "刘洋", Department: "维护部", Role: "维修工"},
		}

		for _, u := range users {
			var count int64
			db.Model(&userDatamodel.User{}).Where("username = ?", u.Username).Count(&count)
			if count > 0 {
				fmt.Printf("user %s already exists, skipping\n", u.Username)
				continue
			}

			u.PasswordHash = string(hash)
			u.IsActive = true
			u.CreatedAt = time.Now()
			u.UpdatedAt = time.Now()
			if err := db.Create(&u).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Username, err)
			}
			fmt.Printf("Seeded user: %s (%s / %s)\n", u.Username, u.Department, u.Role)
		}

		var creator userDatamodel.User
		if err := db.Where("username = ?", "wangfang").First(&creator).Error; err != nil {
			log.Fatalf("failed to look up seed creator: %v", err)
		}

		var existing int64
		db.Model(&workorderDatamodel.WorkOrder{}).Count(&existing)
		if existing > 0 {
			fmt.Println("work orders already present, skipping sample work order")
			return
		}

		deadline := time.Now().Add(72 * time.Hour)
		wo := workorderDatamodel.WorkOrder{
			Title:       "二沉池出水浊度异常",
			Description: "二沉池出水浊度持续偏高，需检查刮泥机与回流比设置。",
			Category:    "设备维修",
			Status:      "pending",
			Priority:    "high",
			CreatorID:   creator.ID,
			Deadline:    &deadline,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := db.Create(&wo).Error; err != nil {
			log.Fatalf("failed to seed work order: %v", err)
		}

		entry := workorderDatamodel.WorkOrderLog{
			WorkOrderID: wo.ID,
			Action:      "create",
			OperatorID:  creator.ID,
			CreatedAt:   time.Now(),
		}
		if err := db.Create(&entry).Error; err != nil {
			log.Fatalf("failed to seed work order log: %v", err)
		}

		fmt.Printf("Seeded sample work order #%d\n", wo.ID)
	},
}
