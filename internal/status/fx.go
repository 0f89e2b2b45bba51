package status

import (
	"github.com/smallbiznis/userhub/internal/status/repository"
	"github.com/smallbiznis/userhub/internal/status/service"
	"go.uber.org/fx"
)

var Module = fx.Module("status.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
