package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: dbLogger})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}

// ResetDatabase drops and recreates every table. It refuses to run unless the
// environment mode is "test" so a misconfigured deployment cannot wipe data.
func ResetDatabase(env string) error {
	if env != "test" {
		return fmt.Errorf("refusing to reset database in %q environment", env)
	}

	migrator := DB.Migrator()

	// Children before parents so foreign keys do not block the drop.
	for _, model := range []interface{}{&models.Task{}, &models.Project{}, &models.User{}} {
		if migrator.HasTable(model) {
			if err := migrator.DropTable(model); err != nil {
				return err
			}
		}
	}

	return DB.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{})
}
