package bootstrap

import (
	"contractor-booking/config"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/repository/memory"
	"contractor-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	demoContractorID = uuid.MustParse("7b7f6a4e-3c1d-4a55-9a0e-2f7c0a1d9b01")
	demoUserID       = uuid.MustParse("7b7f6a4e-3c1d-4a55-9a0e-2f7c0a1d9b02")
	demoAdminID      = uuid.MustParse("7b7f6a4e-3c1d-4a55-9a0e-2f7c0a1d9b03")
)

// seedDevelopmentData puts one bookable contractor into an empty memory store.
func seedDevelopmentData(store *memory.Store, log *logrus.Logger) {
	store.PutContractor(entity.Contractor{
		ID:         demoContractorID,
		Name:       "Demo Contractor",
		Speciality: "plumbing",
		Fees:       decimal.NewFromInt(500),
		Available:  true,
		IsApproved: true,
	})
	log.Infof("Seeded demo contractor %s", demoContractorID)
}

// logDemoTokens logs a token per role so the API can be exercised locally.
// With the postgres store the admin token is enough to onboard contractors.
func logDemoTokens(cfg *config.Config, log *logrus.Logger) {
	if cfg.JWT.Secret == "" {
		return
	}
	signer := jwt.NewJWTService(cfg.JWT)
	for _, actor := range []entity.Actor{
		{ID: demoUserID, Role: entity.RoleUser},
		{ID: demoContractorID, Role: entity.RoleContractor},
		{ID: demoAdminID, Role: entity.RoleAdmin},
	} {
		token, err := signer.GenerateAccessToken(actor)
		if err != nil {
			log.Warnf("Failed to sign demo token for %s: %+v", actor.Role, err)
			continue
		}
		log.WithField("role", actor.Role).Infof("Demo token: %s", token)
	}
}
