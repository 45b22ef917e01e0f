package migrations

import (
	"agendei.link/configs/configslog"
	"agendei.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateClientsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrando a tabela clients...")
	if err := db.AutoMigrate(&models.Client{}); err != nil {
		configslog.Log.Error("Falha ao migrar a tabela clients", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabela clients migrada com sucesso")
	return nil
}
