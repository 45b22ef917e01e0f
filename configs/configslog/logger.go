package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log é o logger estruturado global da aplicação.
var Log *zap.Logger

// SLog é a variante "sugared" para mensagens simples/formatadas.
var SLog *zap.SugaredLogger

// InitLogger inicializa os loggers globais conforme o APP_ENV.
// Em produção usa JSON; em desenvolvimento usa o encoder de console.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		// Sem logger não há como continuar.
		panic("não foi possível inicializar o logger: " + err.Error())
	}
	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger descarrega buffers pendentes. Chamar via defer no main.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
