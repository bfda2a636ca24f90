package complex

import (
	"github.com/happytownlabs/happytown/internal/complex/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("complex.repository",
	fx.Provide(repository.NewRepository),
)
