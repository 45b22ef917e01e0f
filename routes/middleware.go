package routes

import (
	"context"
	"errors"

	"agendei.link/configs/configslog"
	"agendei.link/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// apiAuthMiddleware protege as rotas administrativas com HTTP Basic validado
// contra a tabela users (hash bcrypt do seeder).
func apiAuthMiddleware(users repositories.IUserRepository) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Authorizer: func(email, password string) bool {
			user, err := users.FindByEmail(context.Background(), email)
			if err != nil {
				if !errors.Is(err, repositories.ErrNotFound) {
					configslog.Log.Error("Autenticação: erro ao buscar usuário", zap.Error(err))
				}
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
		},
		Unauthorized: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "credenciais inválidas"})
		},
	})
}
