package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"studyhall/internal/seats"
	"studyhall/internal/settings"
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/database"
	"studyhall/internal/users"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the layout of the optional YAML file named by SEED_FILE
type SeedFile struct {
	Password string         `yaml:"password"`
	Users    []SeedUser     `yaml:"users"`
	Areas    []SeedArea     `yaml:"areas"`
	Settings map[string]int `yaml:"settings"`
}

type SeedUser struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"`
}

// SeedArea expands to Count seats numbered <Prefix>-01, <Prefix>-02, ...
type SeedArea struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
	Count  int    `yaml:"count"`
}

var defaultSeed = SeedFile{
	Password: "qwerty",
	Users: []SeedUser{
		{FirstName: "Admin", LastName: "User", Email: "admin@studyhall.local", Role: "ADMIN"},
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@studyhall.local", Role: "USER"},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@studyhall.local", Role: "USER"},
	},
	Areas: []SeedArea{
		{Name: "Quiet Zone", Prefix: "Q", Count: 12},
		{Name: "Window", Prefix: "W", Count: 8},
		{Name: "Group Tables", Prefix: "G", Count: 6},
	},
	Settings: map[string]int{
		settings.KeyViolationLimit:     3,
		settings.KeyDailyLimit:         3,
		settings.KeyCheckInLeadMinutes: 15,
		settings.KeyLateCancelMinutes:  0,
	},
}

type Seeder struct {
	db   *database.DB
	data SeedFile
}

func main() {
	fmt.Println("🌱 Starting StudyHall Database Seeder...")

	cfg := config.Load()

	data, err := loadSeedFile(os.Getenv("SEED_FILE"))
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, data: data}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

func loadSeedFile(path string) (SeedFile, error) {
	if path == "" {
		return defaultSeed, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, err
	}
	data := defaultSeed
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return SeedFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, nil
}

// CleanDatabase empties every table, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"violations",
		"reservations",
		"seats",
		"system_settings",
		"users",
	}

	return s.db.SQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Emptying table: %s\n", table)
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to empty table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll(ctx context.Context) error {
	if err := s.SeedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.SeedSeats(ctx); err != nil {
		return fmt.Errorf("failed to seed seats: %w", err)
	}
	if err := s.SeedSettings(ctx); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	// Drop cached seat maps and leaderboards from a previous dataset
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}
	return nil
}

func (s *Seeder) SeedUsers(ctx context.Context) error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.data.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	repo := users.NewRepository(s.db.SQL)
	for _, u := range s.data.Users {
		role := users.Role(u.Role)
		if !users.IsValidRole(u.Role) {
			role = users.RoleUser
		}
		user := &users.User{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Password:  string(hashedPassword),
			Role:      role,
			Status:    users.StatusEnabled,
		}
		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}
	return nil
}

func (s *Seeder) SeedSeats(ctx context.Context) error {
	fmt.Println("  💺 Seeding seats...")

	repo := seats.NewRepository(s.db.SQL)
	for _, area := range s.data.Areas {
		for i := 1; i <= area.Count; i++ {
			seat := &seats.Seat{
				SeatNumber: fmt.Sprintf("%s-%02d", area.Prefix, i),
				Area:       area.Name,
				Status:     seats.StatusEnabled,
			}
			if err := repo.Create(ctx, seat); err != nil {
				return fmt.Errorf("failed to create seat %s: %w", seat.SeatNumber, err)
			}
		}
		fmt.Printf("    ✅ Created %d seats in %s\n", area.Count, area.Name)
	}
	return nil
}

func (s *Seeder) SeedSettings(ctx context.Context) error {
	fmt.Println("  ⚙️  Seeding settings...")

	service := settings.NewService(settings.NewRepository(s.db.SQL))
	for key, value := range s.data.Settings {
		if _, err := service.SetValue(ctx, key, strconv.Itoa(value), "seeded"); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		fmt.Printf("    ✅ %s = %d\n", key, value)
	}
	return nil
}
