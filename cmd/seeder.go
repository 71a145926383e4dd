package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/empleoya/internal/core/datamodel"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	categoryDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/category"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/user"
	"github.com/frahmantamala/empleoya/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password"

var (
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample data",
		Long:  `Seed the database with an administrator, the base categories and one demo employer and applicant.`,
		RunE:  runSeed,
	}
	seedClear bool
)

func init() {
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "truncate every table before seeding")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, readDB, err := initDB(cfg.Database, false)
	if err != nil {
		return err
	}
	defer readDB.Close()

	hash, err := user.HashPassword(seedPassword, cfg.Security.BCryptCost)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if seedClear {
			if err := clearTables(tx); err != nil {
				return err
			}
			lg.Info("cleared all tables")
		}

		if _, err := seedUser(tx, "admin@empleoya.com", "Admin", "EMPLEOYA", identity.RoleAdmin, hash); err != nil {
			return err
		}

		for _, c := range seedCategories {
			desc, icon := c.desc, c.icon
			row := categoryDatamodel.Category{Name: c.name, Description: &desc, Icon: &icon, Active: true}
			if err := tx.Where("nombre = ?", c.name).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.name, err)
			}
		}

		employer, err := seedUser(tx, "empresa@empleoya.com", "Carla", "Rojas", identity.RoleEmployer, hash)
		if err != nil {
			return err
		}
		sector, location := "Tecnología", "Lima"
		company := companyDatamodel.Company{UserID: employer.ID, Name: "Andes Digital SAC", Sector: &sector, Location: &location, Size: "mediana"}
		if err := tx.Where("usuario_id = ?", employer.ID).FirstOrCreate(&company).Error; err != nil {
			return fmt.Errorf("failed to seed company: %w", err)
		}

		applicant, err := seedUser(tx, "postulante@empleoya.com", "Luis", "Quispe", identity.RoleApplicant, hash)
		if err != nil {
			return err
		}
		title := "Desarrollador Backend"
		profile := applicantDatamodel.ApplicantProfile{UserID: applicant.ID, Title: &title, ExperienceLevel: "junior", YearsExperience: 2, Location: &location}
		if err := tx.Where("usuario_id = ?", applicant.ID).FirstOrCreate(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed applicant profile: %w", err)
		}

		lg.Info("seed complete", "password", seedPassword, "categories", len(seedCategories))
		return nil
	})
}

var seedCategories = []struct {
	name, desc, icon string
}{
	{"Tecnología", "Desarrollo de software, datos e infraestructura", "laptop"},
	{"Ventas", "Ventas, comercial y atención al cliente", "chart"},
	{"Marketing", "Marketing digital, comunicación y publicidad", "megaphone"},
	{"Salud", "Medicina, enfermería y servicios de salud", "heart"},
	{"Educación", "Docencia, capacitación e investigación", "book"},
	{"Administración", "Finanzas, contabilidad y recursos humanos", "briefcase"},
}

func seedUser(tx *gorm.DB, email, firstName, lastName string, role identity.Role, hash string) (*userDatamodel.User, error) {
	row := userDatamodel.User{
		Email:         email,
		PasswordHash:  hash,
		FirstName:     firstName,
		LastName:      lastName,
		Role:          string(role),
		Status:        user.StatusActive,
		EmailVerified: true,
	}
	if err := tx.Where("email = ?", email).FirstOrCreate(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return &row, nil
}

func clearTables(tx *gorm.DB) error {
	models := datamodel.All()
	for i := len(models) - 1; i >= 0; i-- {
		stmt := &gorm.Statement{DB: tx}
		if err := stmt.Parse(models[i]); err != nil {
			return err
		}
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", stmt.Schema.Table)).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", stmt.Schema.Table, err)
		}
	}
	return nil
}
