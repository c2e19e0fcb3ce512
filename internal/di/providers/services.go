package providers

import (
	"github.com/samber/do/v2"

	"github.com/whenworksapp/whenworks-server/internal/auth"
	"github.com/whenworksapp/whenworks-server/internal/config"
	"github.com/whenworksapp/whenworks-server/internal/logger"
	"github.com/whenworksapp/whenworks-server/internal/service"
	"github.com/whenworksapp/whenworks-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideRoomService provides the room service.
func ProvideRoomService(i do.Injector) (*service.RoomService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	cfg := do.MustInvoke[*config.Config](i)

	return service.NewRoomService(storeHandle.Store, validator, log.Logger, cfg), nil
}

// ProvideIdentityService provides the anonymous identity service.
func ProvideIdentityService(i do.Injector) (*service.IdentityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIdentityService(storeHandle.Store, tokenService, log.Logger), nil
}
