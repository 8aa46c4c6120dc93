// Seeds a development database with an admin account and a small fleet.
package main

import (
	"context"
	"log"
	"time"

	"fleettrack/internal/config"
	"fleettrack/internal/database"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("Failed to close database connection: %v", err)
		}
	}()

	repo := repository.NewPostgresRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()

	admin := model.User{
		ID:           uuid.New(),
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		log.Printf("Admin user not created (may already exist): %v", err)
	} else {
		log.Printf("Created admin user %s", admin.Username)
	}

	plan := model.Plan{
		ID:          uuid.New(),
		Name:        "Business Unlimited",
		MonthlyCost: 35,
		Description: "Unlimited calls and 20GB data",
	}
	if err := repo.CreatePlan(ctx, plan); err != nil {
		log.Fatalf("Failed to create plan: %v", err)
	}

	employees := []model.Employee{
		{ID: uuid.New(), FullName: "Maria Lopez", JobTitle: "Field Supervisor", Department: "Operations", Location: "Bogota", Company: "Acme Logistics", Status: model.EmployeeStatusActive, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), FullName: "Carlos Mendez", JobTitle: "Driver", Department: "Transport", Location: "Medellin", Company: "Acme Logistics", Status: model.EmployeeStatusActive, CreatedAt: now, UpdatedAt: now},
	}
	for _, e := range employees {
		if err := repo.CreateEmployee(ctx, e); err != nil {
			log.Fatalf("Failed to create employee %s: %v", e.FullName, err)
		}
	}

	serial := "R58M12ABCDE"
	imei := "356938035643809"
	phone := "+57 300 123 4567"
	devices := []model.Device{
		{
			ID:                uuid.New(),
			Brand:             "Samsung",
			Model:             "Galaxy S23",
			SerialNumber:      &serial,
			IMEI:              &imei,
			PhoneNumber:       &phone,
			PlanID:            &plan.ID,
			InitialCost:       450,
			PurchaseDate:      now.AddDate(-1, 0, 0),
			PhysicalCondition: model.ConditionNew,
			Status:            model.DeviceStatusAvailable,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New(),
			Brand:             "Apple",
			Model:             "iPhone 14",
			InitialCost:       900,
			PurchaseDate:      now.AddDate(-2, -6, 0),
			PhysicalCondition: model.ConditionUsed,
			Status:            model.DeviceStatusAvailable,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}
	for _, d := range devices {
		if err := repo.CreateDevice(ctx, d); err != nil {
			log.Fatalf("Failed to create device %s %s: %v", d.Brand, d.Model, err)
		}
	}

	log.Printf("Seeded %d employees, %d devices and 1 plan", len(employees), len(devices))
}
