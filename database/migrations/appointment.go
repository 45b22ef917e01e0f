package migrations

import (
	"agendei.link/configs/configslog"
	"agendei.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateAppointmentsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrando a tabela appointments...")
	if err := db.AutoMigrate(&models.Appointment{}); err != nil {
		configslog.Log.Error("Falha ao migrar a tabela appointments", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabela appointments migrada com sucesso")
	return nil
}
