package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/budget-approval/internal/budget"
	budgetDatamodel "github.com/frahmantamala/budget-approval/internal/core/datamodel/budget"
	userDatamodel "github.com/frahmantamala/budget-approval/internal/core/datamodel/user"
	"github.com/frahmantamala/budget-approval/internal/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
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
			if err := db.Exec("DELETE FROM budget_requests").Error; err != nil {
				log.Fatalf("failed to clear budget requests: %v", err)
			}
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		accounts := []struct {
			Email string
			Role  user.Role
		}{
			{"employee@example.com", user.RoleEmployee},
			{"manager@example.com", user.RoleManager},
			{"admin@example.com", user.RoleAdmin},
		}

		ids := make(map[string]string)
		now := time.Now().UTC()

		for _, a := range accounts {
			var existing userDatamodel.User
			if err := db.Where("email = ?", a.Email).First(&existing).Error; err == nil {
				fmt.Println("user already exists:", a.Email)
				ids[a.Email] = existing.ID
				continue
			}

			u := userDatamodel.User{
				ID:           uuid.NewString(),
				Email:        a.Email,
				PasswordHash: string(hash),
				Role:         string(a.Role),
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := db.Create(&u).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Email, err)
			}
			ids[a.Email] = u.ID
			fmt.Println("Seeded user:", a.Email)
		}

		samples := []struct {
			Title  string
			Amount string
			Status budget.Status
		}{
			{"Team offsite catering", "1250.00", budget.StatusPending},
			{"Conference tickets", "899.99", budget.StatusApproved},
			{"Standing desk", "450.00", budget.StatusRejected},
		}

		employeeID := ids["employee@example.com"]
		for _, s := range samples {
			amount, err := decimal.NewFromString(s.Amount)
			if err != nil {
				log.Fatalf("invalid sample amount %s: %v", s.Amount, err)
			}

			var count int64
			db.Model(&budgetDatamodel.BudgetRequest{}).
				Where("title = ? AND requested_by = ?", s.Title, employeeID).
				Count(&count)
			if count > 0 {
				fmt.Println("budget request already exists:", s.Title)
				continue
			}

			req := budgetDatamodel.BudgetRequest{
				Title:       s.Title,
				Amount:      amount,
				Status:      string(s.Status),
				RequestedBy: employeeID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := db.Create(&req).Error; err != nil {
				log.Fatalf("failed to insert budget request %s: %v", s.Title, err)
			}
			fmt.Println("Seeded budget request:", s.Title)
		}

		fmt.Println("Seeding complete")
	},
}
