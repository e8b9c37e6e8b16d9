package config

import (
	"fmt"
	"log"
	"os"

	"github.com/ecovilla/exchange-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDatabase() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
	}

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the services rely on for duplicate
	// detection (open requests, flags).
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func InitDB() *gorm.DB {
	db, err := ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Neighborhood{},
		&models.Listing{},
		&models.ListingNeighborhood{},
		&models.Transaction{},
		&models.Flag{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	return db
}
