package migrations

import (
	"agendei.link/configs/configslog"
	"agendei.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateServiceOrdersTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrando a tabela service_orders...")
	if err := db.AutoMigrate(&models.ServiceOrder{}); err != nil {
		configslog.Log.Error("Falha ao migrar a tabela service_orders", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabela service_orders migrada com sucesso")
	return nil
}
