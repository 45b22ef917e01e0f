package main

import (
	"flag"

	"agendei.link/configs/configsdatabase"
	"agendei.link/configs/configslog"
	"agendei.link/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()
	migrateFlag := flag.Bool("migrate", false, "Executa a preparação do banco (inclui as migrações)")
	seedFlag := flag.Bool("seed", false, "Executa a preparação do banco (inclui os seeders)")
	flag.Parse()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	db := configsdatabase.GetDB()

	configslog.SLog.Info("Executando a preparação do banco de dados...")
	database.Initialize(db, *migrateFlag, *seedFlag)

	configslog.SLog.Info("Preparação do banco de dados finalizada.")
}
