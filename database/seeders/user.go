package seeders

import (
	"errors"
	"os"

	"agendei.link/configs/configslog"
	"agendei.link/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultSystemEmail = "sistema@agendei.link"
	defaultSystemName  = "Sistema"
)

// SeedSystemUser garante a existência do usuário de sistema (ID 1), dono das
// colunas de auditoria preenchidas pelos hooks do BaseModel.
func SeedSystemUser(db *gorm.DB) error {
	email := os.Getenv("SYSTEM_USER_EMAIL")
	if email == "" {
		email = defaultSystemEmail
	}
	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if password == "" {
		configslog.SLog.Warn("SYSTEM_USER_PASSWORD não definido, usando senha padrão de desenvolvimento")
		password = "agendei-dev"
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		configslog.SLog.Debugf("Usuário de sistema '%s' já existe, seed ignorado.", email)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Erro ao verificar o usuário de sistema", zap.Error(result.Error))
		return result.Error
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Falha ao gerar o hash da senha do usuário de sistema", zap.Error(err))
		return err
	}

	user := models.User{
		Name:         defaultSystemName,
		Email:        email,
		PasswordHash: string(hash),
		IsSystem:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("Falha ao criar o usuário de sistema", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Usuário de sistema '%s' criado com sucesso (ID: %d).", email, user.ID)
	return nil
}
