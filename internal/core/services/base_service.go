package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	"github.com/taskforce-tools/op_funds_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	AgentRepo portsrepo.AgentReader
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// ResolveActor resolves an actor ID to an active agent. Every mutating
// operation starts here; the engine never performs credential checks itself,
// it only consumes the identity resolved by the auth middleware.
func (s *BaseService) ResolveActor(ctx context.Context, actorID string) (*domain.Agent, error) {
	if actorID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if s.AgentRepo == nil {
		return nil, fmt.Errorf("%w: agent repository not configured", apperrors.ErrInternal)
	}

	actor, err := s.AgentRepo.FindAgentByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown actor", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !actor.IsActive {
		return nil, fmt.Errorf("%w: agent is deactivated", apperrors.ErrForbidden)
	}
	return actor, nil
}
