package providers

import (
	"github.com/samber/do/v2"

	"github.com/hagigaapp/hagiga-server/internal/auth"
	"github.com/hagigaapp/hagiga-server/internal/config"
	"github.com/hagigaapp/hagiga-server/internal/csvimport"
	"github.com/hagigaapp/hagiga-server/internal/logger"
	"github.com/hagigaapp/hagiga-server/internal/media/files"
	"github.com/hagigaapp/hagiga-server/internal/service"
	"github.com/hagigaapp/hagiga-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	otp := do.MustInvoke[*auth.OTPStore](i)
	otpLimiter := do.MustInvoke[*OTPLimiterHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	devMode := cfg.App.Environment != "production"
	return service.NewAuthService(storeHandle.Store, tokens, otp, otpLimiter.KeyedRateLimiter, validator, log.Logger, devMode), nil
}

// ProvideEventService provides the event service.
func ProvideEventService(i do.Injector) (*service.EventService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[files.Storage](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEventService(storeHandle.Store, storage, validator, log.Logger), nil
}

// ProvideParticipantService provides the guest list service.
func ProvideParticipantService(i do.Injector) (*service.ParticipantService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	events := do.MustInvoke[*service.EventService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewParticipantService(storeHandle.Store, events, validator, log.Logger), nil
}

// ProvideImportService provides the guest list import service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[files.Storage](i)
	events := do.MustInvoke[*service.EventService](i)
	log := do.MustInvoke[*logger.Logger](i)

	policy := csvimport.PhonePolicyLenient
	if cfg.Import.PhonePolicy == "strict" {
		policy = csvimport.PhonePolicyStrict
	}

	return service.NewImportService(storeHandle.Store, storage, events, policy, cfg.Import.MaxRows, log.Logger), nil
}

// ProvideMediaService provides the media service.
func ProvideMediaService(i do.Injector) (*service.MediaService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[files.Storage](i)
	events := do.MustInvoke[*service.EventService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMediaService(storeHandle.Store, storage, events, log.Logger), nil
}

// ProvideInvitationService provides the invitation service.
func ProvideInvitationService(i do.Injector) (*service.InvitationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	events := do.MustInvoke[*service.EventService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInvitationService(storeHandle.Store, events, validator, log.Logger), nil
}

// ProvideSeatingService provides the seating service.
func ProvideSeatingService(i do.Injector) (*service.SeatingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	events := do.MustInvoke[*service.EventService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSeatingService(storeHandle.Store, events, validator, log.Logger), nil
}
