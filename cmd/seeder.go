package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
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

		db, err := gorm.Open(postgres.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			tables := []string{
				"notifications", "audit_logs", "inventory_levels", "inventory_items",
				"availability", "attendance", "shift_swaps", "shifts",
				"employees", "users", "feature_flags", "tenants",
			}
			for _, t := range tables {
				if err := db.Exec("DELETE FROM " + t).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", t, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		tenants := []struct {
			Name string
			Slug string
		}{
			{"Cafe Sonne", "cafe-sonne"},
			{"Bar Luna", "bar-luna"},
		}

		for _, t := range tenants {
			var exists int
			if err := db.Raw("SELECT 1 FROM tenants WHERE slug = ?", t.Slug).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO tenants (name, slug, created_at, updated_at) VALUES (?, ?, now(), now())", t.Name, t.Slug).Error; err != nil {
				log.Fatalf("failed to insert tenant %s: %v", t.Slug, err)
			}
			fmt.Println("Seeded tenant:", t.Slug)
		}

		var tenantID int64
		if err := db.Raw("SELECT id FROM tenants WHERE slug = ?", "cafe-sonne").Row().Scan(&tenantID); err != nil {
			log.Fatalf("failed to lookup tenant id: %v", err)
		}

		users := []struct {
			Email string
			Role  string
		}{
			{"admin@zono.app", "zono_admin"},
			{"mia@cafesonne.de", "manager"},
			{"jonas@cafesonne.de", "staff"},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			if err := db.Exec("INSERT INTO users (tenant_id, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())", tenantID, u.Email, string(hash), u.Role).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		employees := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"mia@cafesonne.de", "Mia Weber", "Barista"},
			{"jonas@cafesonne.de", "Jonas Keller", "Barista"},
		}

		for _, e := range employees {
			var userID int64
			if err := db.Raw("SELECT id FROM users WHERE email = ?", e.Email).Row().Scan(&userID); err != nil {
				log.Fatalf("failed to lookup user id for %s: %v", e.Email, err)
			}
			var exists int
			if err := db.Raw("SELECT 1 FROM employees WHERE tenant_id = ? AND user_id = ?", tenantID, userID).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO employees (tenant_id, user_id, name, role, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())", tenantID, userID, e.Name, e.Role).Error; err != nil {
				log.Fatalf("failed to insert employee %s: %v", e.Name, err)
			}
			fmt.Println("Seeded employee:", e.Name)
		}

		// One employee without a login; created by the manager, picks up
		// their account later.
		var exists int
		if err := db.Raw("SELECT 1 FROM employees WHERE tenant_id = ? AND name = ?", tenantID, "Aylin Demir").Row().Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO employees (tenant_id, user_id, name, role, created_at, updated_at) VALUES (?, NULL, ?, ?, now(), now())", tenantID, "Aylin Demir", "Kitchen").Error; err != nil {
				log.Fatalf("failed to insert employee Aylin Demir: %v", err)
			}
			fmt.Println("Seeded employee: Aylin Demir")
		}

		features := map[string]bool{
			"swaps":     true,
			"inventory": true,
			"exports":   false,
		}
		for key, enabled := range features {
			if err := db.Raw("SELECT 1 FROM feature_flags WHERE tenant_id = ? AND key = ?", tenantID, key).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(`INSERT INTO feature_flags (tenant_id, "key", enabled, created_at, updated_at) VALUES (?, ?, ?, now(), now())`, tenantID, key, enabled).Error; err != nil {
				log.Fatalf("failed to insert feature flag %s: %v", key, err)
			}
		}
		fmt.Println("Feature flags seeded")

		var jonasEmployeeID int64
		if err := db.Raw("SELECT id FROM employees WHERE tenant_id = ? AND name = ?", tenantID, "Jonas Keller").Row().Scan(&jonasEmployeeID); err != nil {
			log.Fatalf("failed to lookup employee id: %v", err)
		}

		tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
		if err := db.Raw("SELECT 1 FROM shifts WHERE tenant_id = ? AND employee_id = ? AND date = ?", tenantID, jonasEmployeeID, tomorrow).Row().Scan(&exists); err != nil {
			if err := db.Exec(`INSERT INTO shifts (tenant_id, employee_id, date, "start", "end", role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, now(), now())`, tenantID, jonasEmployeeID, tomorrow, "09:00", "17:00", "Barista").Error; err != nil {
				log.Fatalf("failed to insert shift: %v", err)
			}
			fmt.Println("Seeded shift for Jonas Keller on", tomorrow)
		}

		items := []struct {
			Name      string
			SKU       string
			Threshold int
			Qty       int
		}{
			{"Espresso Beans 1kg", "BEAN-001", 5, 12},
			{"Oat Milk 1L", "MILK-OAT", 10, 8},
		}
		for _, it := range items {
			var itemID int64
			if err := db.Raw("SELECT id FROM inventory_items WHERE tenant_id = ? AND sku = ?", tenantID, it.SKU).Row().Scan(&itemID); err != nil {
				if err := db.Exec("INSERT INTO inventory_items (tenant_id, name, sku, low_stock_threshold, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())", tenantID, it.Name, it.SKU, it.Threshold).Error; err != nil {
					log.Fatalf("failed to insert inventory item %s: %v", it.SKU, err)
				}
				if err := db.Raw("SELECT id FROM inventory_items WHERE tenant_id = ? AND sku = ?", tenantID, it.SKU).Row().Scan(&itemID); err != nil {
					log.Fatalf("item not found after insert %s: %v", it.SKU, err)
				}
				if err := db.Exec("INSERT INTO inventory_levels (tenant_id, item_id, qty_on_hand, created_at) VALUES (?, ?, ?, now())", tenantID, itemID, it.Qty).Error; err != nil {
					log.Fatalf("failed to insert inventory level for %s: %v", it.SKU, err)
				}
				fmt.Println("Seeded inventory item:", it.SKU)
			}
		}

		fmt.Println("Seeding complete. All users log in with password:", password)
	},
}
