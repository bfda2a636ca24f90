package upload

import (
	"github.com/happytownlabs/happytown/internal/upload/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("upload.repository",
	fx.Provide(repository.NewRepository),
)
