package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/contacthub/contacthub/internal/hash"
	"github.com/contacthub/contacthub/internal/models"
)

type Config struct {
	PORT        string
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	JWT_SECRET     string
	REFRESH_SECRET string
	ACCESS_TTL     time.Duration
	REFRESH_TTL    time.Duration
	BCRYPT_COST    int

	KAFKA_ADDRESS string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	MINIO_ENDPOINT   string
	MINIO_ACCESS_KEY string
	MINIO_SECRET_KEY string
	MINIO_BUCKET     string
	MINIO_USE_SSL    bool

	MAX_UPLOAD_SIZE int64
	LOG_LEVEL       string

	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:        getEnv("PORT", "8080"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     getEnv("DB_PORT", "5432"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		REFRESH_SECRET: os.Getenv("REFRESH_SECRET"),
		ACCESS_TTL:     getDuration("ACCESS_TTL", 15*time.Minute),
		REFRESH_TTL:    getDuration("REFRESH_TTL", 7*24*time.Hour),
		BCRYPT_COST:    getInt("BCRYPT_COST", bcrypt.DefaultCost),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		MINIO_ENDPOINT:   os.Getenv("MINIO_ENDPOINT"),
		MINIO_ACCESS_KEY: os.Getenv("MINIO_ACCESS_KEY"),
		MINIO_SECRET_KEY: os.Getenv("MINIO_SECRET_KEY"),
		MINIO_BUCKET:     getEnv("MINIO_BUCKET", "contact-photos"),
		MINIO_USE_SSL:    getBool("MINIO_USE_SSL", false),

		MAX_UPLOAD_SIZE: getInt64("MAX_UPLOAD_SIZE", 10<<20),
		LOG_LEVEL:       getEnv("LOG_LEVEL", "info"),

		ADMIN_EMAIL:    os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),
	}

	if config.JWT_SECRET == "" || config.REFRESH_SECRET == "" {
		return nil, fmt.Errorf("JWT_SECRET and REFRESH_SECRET must be set")
	}

	return config, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Contact{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

// SeedAdmin creates the initial ADMIN account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured. Safe to run on every start.
func SeedAdmin(db *gorm.DB, hasher *hash.Hasher, cfg *Config) error {
	if cfg.ADMIN_EMAIL == "" || cfg.ADMIN_PASSWORD == "" {
		return nil
	}

	pwHash, err := hasher.Hash(cfg.ADMIN_PASSWORD)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        cfg.ADMIN_EMAIL,
		FirstName:    "Admin",
		LastName:     "User",
		PasswordHash: pwHash,
		Terms:        true,
		Role:         models.RoleAdmin,
	}
	return db.Where("email = ?", cfg.ADMIN_EMAIL).FirstOrCreate(&admin).Error
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
