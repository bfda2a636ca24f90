package household

import (
	"github.com/happytownlabs/happytown/internal/household/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("household.repository",
	fx.Provide(repository.NewRepository),
)
