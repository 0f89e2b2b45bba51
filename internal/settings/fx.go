package settings

import (
	"github.com/smallbiznis/userhub/internal/settings/repository"
	"github.com/smallbiznis/userhub/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
