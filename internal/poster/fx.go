package poster

import (
	"github.com/happytownlabs/happytown/internal/poster/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("poster.repository",
	fx.Provide(repository.NewRepository),
)
