package daemon

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/config"
	"github.com/sparky-messaging/sparky-admin/internal/db/models"
)

// seed fills an empty dev directory with a small org tree so impersonation
// can be exercised without the identity service syncing profiles first.
func seed(cfg *config.Config, db *gorm.DB) {
	if !cfg.DevMode {
		return
	}

	var count int64

	db.Model(&models.Profile{}).Count(&count)
	if count > 0 {
		return
	}

	admin := models.Profile{
		ID: uuid.New(), Email: "admin@sparky.test",
		FirstName: "Alice", LastName: "Admin", Role: "admin", Active: true,
	}
	supervisor := models.Profile{
		ID: uuid.New(), Email: "supervisor@sparky.test",
		FirstName: "Sven", LastName: "Supervisor", Role: "supervisor", Active: true,
	}
	manager := models.Profile{
		ID: uuid.New(), Email: "manager@sparky.test",
		FirstName: "Mona", LastName: "Manager", Role: "manager",
		SupervisorID: &supervisor.ID, Active: true,
	}
	user := models.Profile{
		ID: uuid.New(), Email: "user@sparky.test",
		FirstName: "Uwe", LastName: "User", Role: "user",
		ManagerID: &manager.ID, Active: true,
	}

	for _, p := range []models.Profile{admin, supervisor, manager, user} {
		if err := db.Create(&p).Error; err != nil {
			log.Error().Err(err).Str("email", p.Email).Msg("failed to seed profile")
		}
	}

	log.Info().Msg("seeded dev directory with a sample org tree")
}
