package storage

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Jossyboydgenius/Real-Estate-Booking/models"
)

var DB *gorm.DB

func connectToDB(dsn string) *gorm.DB {
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	// TranslateError surfaces unique-constraint violations as
	// gorm.ErrDuplicatedKey so handlers can map them to 409
	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if dbError != nil {
		log.Panic("error connecting to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Residency{},
		&models.Payment{},
	)
}

func InitializeDB(dsn string) *gorm.DB {
	db := connectToDB(dsn)
	performMigrations(db)

	return db
}
