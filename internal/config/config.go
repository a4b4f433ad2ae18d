package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	ServerPort     string
	JWTSecret      string
	JWTExpiryHours int
	LogLevel       string
	LogFormat      string
	BcryptCost     int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		DBDriver:       v.GetString("DB_DRIVER"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		ServerPort:     v.GetString("SERVER_PORT"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5431")
	v.SetDefault("DB_USER", "kanban_user")
	v.SetDefault("DB_PASSWORD", "kanban_pass")
	v.SetDefault("DB_NAME", "kanban_db")
	v.SetDefault("SQLITE_PATH", "kanban.db")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("JWT_SECRET", "supersecretkey")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	// 0 selects bcrypt.DefaultCost.
	v.SetDefault("BCRYPT_COST", 0)
}
