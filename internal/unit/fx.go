package unit

import (
	"github.com/smallbiznis/lightmeasure/internal/unit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("unit.service",
	fx.Provide(service.New),
)
