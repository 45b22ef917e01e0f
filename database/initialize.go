package database

import (
	"agendei.link/configs/configslog"
	"agendei.link/database/migrations"
	"agendei.link/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Nenhuma flag de migrate ou seed informada, nada a fazer.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Não foi possível iniciar a transação do banco", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Inicialização do banco falhou (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Erro durante a inicialização, revertendo a transação.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Erro adicional durante o rollback", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Iniciando a preparação do banco de dados...")

	if migrate {
		configslog.SLog.Info("Executando as migrações...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migração falhou", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrações concluídas.")
	} else {
		configslog.SLog.Info("Flag de migrate não informada, etapa de migração ignorada.")
	}

	if seed {
		configslog.SLog.Info("Executando os seeders...")
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding falhou", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeders concluídos.")
	} else {
		configslog.SLog.Info("Flag de seed não informada, etapa de seed ignorada.")
	}

	configslog.SLog.Info("Efetivando a transação...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit falhou", zap.Error(err))
		return
	}

	configslog.SLog.Info("Preparação do banco de dados concluída com sucesso")
}

func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info("Executando as migrações em ordem...")

	configslog.SLog.Info(" -> Migrando users...")
	if err := migrations.MigrateUsersTable(db); err != nil {
		configslog.Log.Error("Migração da tabela users falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migração de users concluída.")

	configslog.SLog.Info(" -> Migrando clients...")
	if err := migrations.MigrateClientsTable(db); err != nil {
		configslog.Log.Error("Migração da tabela clients falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migração de clients concluída.")

	configslog.SLog.Info(" -> Migrando service_orders...")
	if err := migrations.MigrateServiceOrdersTable(db); err != nil {
		configslog.Log.Error("Migração da tabela service_orders falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migração de service_orders concluída.")

	configslog.SLog.Info(" -> Migrando appointments...")
	if err := migrations.MigrateAppointmentsTable(db); err != nil {
		configslog.Log.Error("Migração da tabela appointments falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migração de appointments concluída.")

	configslog.SLog.Info(" -> Migrando sessions...")
	if err := migrations.MigrateSessionsTable(db); err != nil {
		configslog.Log.Error("Migração da tabela sessions falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migração de sessions concluída.")

	configslog.SLog.Info("Todas as migrações foram executadas com sucesso.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info("Verificando/criando o usuário de sistema...")
	if err := seeders.SeedSystemUser(db); err != nil {
		configslog.Log.Error("Seed do usuário de sistema falhou", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Todos os seeders foram verificados/executados com sucesso.")
	return nil
}
