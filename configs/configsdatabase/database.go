package configsdatabase

import (
	"fmt"
	"os"
	"time"

	"agendei.link/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB abre o pool de conexões com o Postgres a partir das variáveis de
// ambiente (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSLMODE).
func InitDB() {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_NAME", "agendei"),
		getEnv("DB_SSLMODE", "disable"),
	)

	logLevel := gormlogger.Warn
	if os.Getenv("APP_ENV") == "production" {
		logLevel = gormlogger.Error
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		configslog.Log.Fatal("Falha ao conectar no banco de dados", zap.Error(err))
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("Falha ao obter o *sql.DB do GORM", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	db = conn
	configslog.SLog.Info("Conexão com o banco de dados estabelecida")
}

// GetDB retorna o pool inicializado por InitDB.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("GetDB chamado antes de InitDB")
	}
	return db
}

// SetDB injeta uma conexão já aberta. Usado pelos testes.
func SetDB(conn *gorm.DB) { db = conn }

// CloseDB encerra o pool.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Falha ao obter conexão para fechamento", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Falha ao fechar o banco de dados", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
