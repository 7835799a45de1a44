// Package di provides dependency injection configuration for the Hagiga server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/hagigaapp/hagiga-server/internal/auth"
	"github.com/hagigaapp/hagiga-server/internal/config"
	"github.com/hagigaapp/hagiga-server/internal/di/providers"
	"github.com/hagigaapp/hagiga-server/internal/logger"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database and storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideFileStorage)

	// Search layer
	do.Provide(injector, providers.ProvideGuestIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Live activity stream
	do.Provide(injector, providers.ProvideSSEManager)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideOTPStore)
	do.Provide(injector, providers.ProvideOTPLimiter)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideEventService)
	do.Provide(injector, providers.ProvideParticipantService)
	do.Provide(injector, providers.ProvideImportService)
	do.Provide(injector, providers.ProvideMediaService)
	do.Provide(injector, providers.ProvideInvitationService)
	do.Provide(injector, providers.ProvideSeatingService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is
// running. This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.GuestIndexHandle](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.EventService](injector)
	_ = do.MustInvoke[*service.ParticipantService](injector)
	_ = do.MustInvoke[*service.ImportService](injector)
	_ = do.MustInvoke[*service.MediaService](injector)
	_ = do.MustInvoke[*service.InvitationService](injector)
	_ = do.MustInvoke[*service.SeatingService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the guest index if it came up empty
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
