package commands

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/jakechorley/church-check-in/internal/config"
	"github.com/jakechorley/church-check-in/pkg/core/services"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Client services.CheckInClient
	Auth   services.Authenticator
	Logger *zap.Logger
	Ctx    context.Context
	Out    io.Writer
}
