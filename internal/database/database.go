package database

import (
	"fmt"
	"log"

	"wa_gateway/internal/config"
	"wa_gateway/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDatabase initializes the database connection
func InitDatabase() {
	var err error

	// Check environment for database type
	dbType := config.Get("DB_TYPE", "mysql")

	switch dbType {
	case "mysql":
		DB, err = connectMySQL()
	case "postgres", "postgresql":
		DB, err = connectPostgreSQL()
	case "sqlite":
		DB, err = connectSQLite()
	default:
		log.Fatal("Unsupported database type:", dbType)
	}

	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto migrate tables
	err = MigrateTables(DB)
	if err != nil {
		log.Fatal("Failed to migrate tables:", err)
	}

	log.Println("Database connected and migrated successfully!")
}

// connectMySQL connects to MySQL database
func connectMySQL() (*gorm.DB, error) {
	host := config.Get("DB_HOST", "127.0.0.1")
	port := config.Get("DB_PORT", "3306")
	user := config.Get("DB_USER", "root")
	password := config.Get("DB_PASSWORD", "")
	dbName := config.Get("DB_NAME", "topup_store")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=10s&readTimeout=30s&writeTimeout=30s",
		user, password, host, port, dbName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}

// connectPostgreSQL connects to PostgreSQL database
func connectPostgreSQL() (*gorm.DB, error) {
	host := config.Get("DB_HOST", "localhost")
	port := config.Get("DB_PORT", "5432")
	user := config.Get("DB_USER", "postgres")
	password := config.Get("DB_PASSWORD", "")
	dbName := config.Get("DB_NAME", "topup_store")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Asia/Jakarta",
		host, port, user, password, dbName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}

// connectSQLite connects to SQLite database (development fallback)
func connectSQLite() (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(config.Get("DB_NAME", "topup_store.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// MigrateTables creates/updates database tables
func MigrateTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Setting{},
		&models.User{},
		&models.Game{},
		&models.Transaction{},
		&models.Payment{},
		&models.Schedule{},
		&models.Broadcast{},
		&models.Job{},
		&models.FailedJob{},
	); err != nil {
		return err
	}

	return seedSettings(db)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CheckAndReconnect checks if database connection is alive and reconnects if needed
func CheckAndReconnect() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.Ping(); err != nil {
		log.Printf("Database connection lost, attempting to reconnect...")

		sqlDB.Close()
		InitDatabase()

		return nil
	}

	return nil
}
