package cmd

import (
	"log"
	"os"

	"github.com/frahmantamala/user-backoffice/internal/seeder"
	"github.com/frahmantamala/user-backoffice/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	seedCmd = &cobra.Command{
		RunE:  runSeeder,
		Use:   "seed",
		Short: "load the roles table from a spreadsheet, or clear it with --rollback",
	}
	seedFile     string
	seedRollback bool
)

func runSeeder(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	db, err := sqlx.Connect("pgx", cfg.Database.Source)
	if err != nil {
		log.Fatalf("seed: failed to open DB: %v", err)
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		log.Fatalf("seed: failed to initialize gorm: %v", err)
	}

	roleSeeder := seeder.NewRoleSeeder(gormDB, appLogger)
	if seedRollback {
		return roleSeeder.Rollback()
	}
	return roleSeeder.Seed(seedFile)
}
