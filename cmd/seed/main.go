package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"gharinto/internal/database"
	"gharinto/internal/domain"
	"gharinto/internal/modules/lead"
	"gharinto/internal/modules/notification"
	"gharinto/internal/modules/wallet"
	"gharinto/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "gharinto.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}
	if err := wallet.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}
	if err := notification.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (child tables first)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM wallet_transactions")
	db.Exec("DELETE FROM wallets")
	db.Exec("DELETE FROM projects")
	db.Exec("DELETE FROM leads")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	leads := repository.NewLeadRepository(db)

	log.Println("Creating users...")

	seedUsers := []struct {
		email    string
		password string
		name     string
		role     domain.UserRole
		code     string
	}{
		{"admin@gharinto.com", "admin123", "Platform Admin", domain.RoleAdmin, "GH-ADMIN001"},
		{"pm@gharinto.com", "pm123456", "Rohit Mehta", domain.RoleProjectManager, "GH-PM000001"},
		{"designer@gharinto.com", "designer123", "Kavya Nair", domain.RoleDesigner, "GH-DESIGN01"},
		{"designer2@gharinto.com", "designer123", "Arjun Rao", domain.RoleDesigner, "GH-DESIGN02"},
		{"customer@gharinto.com", "customer123", "Priya Sharma", domain.RoleCustomer, "GH-CUST0001"},
	}

	byEmail := map[string]*domain.User{}
	for _, su := range seedUsers {
		hash, _ := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		u := &domain.User{
			Email:        su.email,
			PasswordHash: string(hash),
			Name:         su.name,
			Role:         su.role,
			City:         "Mumbai",
			ReferralCode: su.code,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("user seed failed:", err)
		}
		byEmail[su.email] = u
		log.Printf("User created: %s / %s", su.email, su.password)
	}

	log.Println("Creating leads...")

	budget := func(v int64) *int64 { return &v }
	customer := byEmail["customer@gharinto.com"]

	seedLeads := []*domain.Lead{
		{
			FirstName: "Asha", LastName: "Verma", Email: "asha.verma@example.com",
			Phone: "+91-9876543210", City: "Mumbai",
			BudgetMin: budget(500_000), BudgetMax: budget(800_000),
			ProjectType: domain.ProjectTypeFullHome, PropertyType: domain.PropertyTypeApartment,
			Timeline: domain.TimelineImmediate, Source: domain.SourceReferral,
			Description: "Complete interior for a new 3BHK flat.",
			ReferredBy:  &customer.ID,
		},
		{
			FirstName: "Vikram", LastName: "Singh", Email: "vikram.singh@example.com",
			Phone: "+91-9811122233", City: "Delhi",
			BudgetMin: budget(200_000), BudgetMax: budget(300_000),
			ProjectType: domain.ProjectTypeMultipleRooms, PropertyType: domain.PropertyTypeIndependentHouse,
			Timeline: domain.TimelineOneToThree, Source: domain.SourceWebsiteForm,
			Description: "Living room and two bedrooms.",
		},
		{
			FirstName: "Meera", LastName: "Iyer", Email: "meera.iyer@example.com",
			Phone: "+91-9900011122", City: "Bengaluru",
			ProjectType: domain.ProjectTypeKitchen, PropertyType: domain.PropertyTypeApartment,
			Timeline: domain.TimelineThreeToSix, Source: domain.SourceSocialMedia,
			Description: "Modular kitchen refresh.",
		},
	}

	for _, l := range seedLeads {
		l.Status = domain.LeadStatusNew
		l.Score = lead.Score(l)
		if err := leads.Create(ctx, l); err != nil {
			log.Fatal("lead seed failed:", err)
		}
		log.Printf("Lead created: %s %s (score %d)", l.FirstName, l.LastName, l.Score)
	}

	log.Println("Seed complete.")
}
