package main

import (
	"fmt"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/service"

	"github.com/spf13/cobra"
)

// tokenCommand выдаёт токен доступа для разработки: вход в систему здесь не реализован.
func tokenCommand(app *appContext) *cobra.Command {
	var (
		userID uint64
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпустить JWT для пользователя и роли",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user-id обязателен")
			}
			if !authz.IsKnownRole(role) {
				return fmt.Errorf("неизвестная роль: %s", role)
			}

			jwtSvc := service.NewJWTService(app.cfg.JWT.SecretKey, app.cfg.JWT.AccessTokenTTL, app.cfg.JWT.RefreshTokenTTL, app.logger)
			accessToken, _, err := jwtSvc.GenerateTokens(userID, role)
			if err != nil {
				return fmt.Errorf("не удалось выпустить токен: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), accessToken)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&userID, "user-id", 0, "ID пользователя")
	cmd.Flags().StringVar(&role, "role", authz.RoleSupervisor, "Роль: admin, supervisor, tecnico, cliente")
	return cmd
}
