package analysis

import (
	"github.com/happytownlabs/happytown/internal/analysis/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analysis.service",
	fx.Provide(service.NewService),
)
