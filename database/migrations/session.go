package migrations

import (
	"agendei.link/configs/configslog"
	"agendei.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateSessionsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrando a tabela sessions...")
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		configslog.Log.Error("Falha ao migrar a tabela sessions", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabela sessions migrada com sucesso")
	return nil
}
