package migrations

import (
	"agendei.link/configs/configslog"
	"agendei.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateUsersTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrando a tabela users...")
	if err := db.AutoMigrate(&models.User{}); err != nil {
		configslog.Log.Error("Falha ao migrar a tabela users", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabela users migrada com sucesso")
	return nil
}
