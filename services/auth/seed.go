package auth

import (
	"carental/config"
	"carental/models"
	"carental/utils"

	"go.uber.org/zap"
)

// SeedDefaultAdmin creates the bootstrap administrator on an empty install.
// It is a no-op once any admin exists, or when no admin password is
// configured.
func (s *DefaultAuthService) SeedDefaultAdmin() error {
	admins, err := s.ManagerRepo.CountByRole(models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	cfg := config.AppConfig
	if cfg.AdminPassword == "" {
		utils.GetLogger().Warn("No administrators exist and ADMIN_PASSWORD is unset; skipping admin seed")
		return nil
	}

	admin, err := s.CreateManager(cfg.AdminEmail, cfg.AdminPassword, "Administrator", models.RoleAdmin)
	if err != nil {
		return err
	}
	utils.GetLogger().Info("Seeded default administrator", zap.String("email", admin.Email))
	return nil
}
