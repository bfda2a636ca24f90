package rank

import (
	"github.com/happytownlabs/happytown/internal/rank/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("rank.repository",
	fx.Provide(repository.NewRepository),
)
