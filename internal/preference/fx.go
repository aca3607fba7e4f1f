package preference

import (
	"github.com/smallbiznis/lightmeasure/internal/preference/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("preference.repository",
	fx.Provide(repository.NewSnowflake),
	fx.Provide(repository.Provide),
)
