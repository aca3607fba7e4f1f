package calculator

import (
	"github.com/smallbiznis/lightmeasure/internal/calculator/service"
	"go.uber.org/fx"
)

var Module = fx.Module("calculator.service",
	fx.Provide(service.New),
)
