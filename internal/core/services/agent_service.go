package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/utils"
)

type agentService struct {
	BaseService
	agentRepo portsrepo.AgentRepositoryFacade
}

var _ portssvc.AgentSvcFacade = (*agentService)(nil)

// NewAgentService creates a new agent service instance.
func NewAgentService(agentRepo portsrepo.AgentRepositoryFacade) portssvc.AgentSvcFacade {
	return &agentService{
		BaseService: BaseService{AgentRepo: agentRepo},
		agentRepo:   agentRepo,
	}
}

// CreateAgent registers a new task-force member with a unique badge number.
func (s *agentService) CreateAgent(ctx context.Context, req dto.CreateAgentRequest, actorID string) (*domain.Agent, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	existing, err := s.agentRepo.FindAgentByBadgeNumber(ctx, req.BadgeNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: badge number %s is already registered", apperrors.ErrDuplicate, req.BadgeNumber)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "failed to hash password")
		return nil, fmt.Errorf("%w: hashing password", apperrors.ErrInternal)
	}

	now := time.Now()
	agent := domain.Agent{
		AgentID:     uuid.NewString(),
		Name:        req.Name,
		BadgeNumber: req.BadgeNumber,
		Email:       req.Email,
		Phone:       req.Phone,
		Role:        req.Role,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.AgentID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.AgentID,
		},
	}

	if err := s.agentRepo.SaveAgent(ctx, agent, passwordHash); err != nil {
		s.LogError(ctx, err, "failed to save agent", "badgeNumber", req.BadgeNumber)
		return nil, err
	}

	s.LogInfo(ctx, "agent created", "agentID", agent.AgentID, "role", agent.Role)
	return &agent, nil
}

// UpdateAgent updates an agent's profile. Admins can update anyone including
// the active flag; agents can only update their own contact details.
func (s *agentService) UpdateAgent(ctx context.Context, agentID string, req dto.UpdateAgentRequest, actorID string) (*domain.Agent, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if actor.AgentID != agentID {
			return nil, fmt.Errorf("%w: agents can only update their own profile", apperrors.ErrForbidden)
		}
		if req.IsActive != nil {
			return nil, fmt.Errorf("%w: only admins can change the active flag", apperrors.ErrForbidden)
		}
	}

	agent, err := s.agentRepo.FindAgentByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		agent.Name = *req.Name
	}
	if req.Email != nil {
		agent.Email = *req.Email
	}
	if req.Phone != nil {
		agent.Phone = *req.Phone
	}
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}
	agent.LastUpdatedAt = time.Now()
	agent.LastUpdatedBy = actor.AgentID

	if err := s.agentRepo.UpdateAgent(ctx, *agent); err != nil {
		s.LogError(ctx, err, "failed to update agent", "agentID", agentID)
		return nil, err
	}

	s.LogInfo(ctx, "agent updated", "agentID", agentID, "updatedBy", actor.AgentID)
	return agent, nil
}

// DeactivateAgent marks an agent inactive. Their history stays on the books;
// they simply can no longer log in or file records.
func (s *agentService) DeactivateAgent(ctx context.Context, agentID string, actorID string) error {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := requireAdmin(actor); err != nil {
		return err
	}

	agent, err := s.agentRepo.FindAgentByID(ctx, agentID)
	if err != nil {
		return err
	}
	if !agent.IsActive {
		return nil
	}

	agent.IsActive = false
	agent.LastUpdatedAt = time.Now()
	agent.LastUpdatedBy = actor.AgentID

	if err := s.agentRepo.UpdateAgent(ctx, *agent); err != nil {
		s.LogError(ctx, err, "failed to deactivate agent", "agentID", agentID)
		return err
	}

	s.LogInfo(ctx, "agent deactivated", "agentID", agentID, "deactivatedBy", actor.AgentID)
	return nil
}

// GetAgentByID retrieves an agent by ID.
func (s *agentService) GetAgentByID(ctx context.Context, agentID string) (*domain.Agent, error) {
	return s.agentRepo.FindAgentByID(ctx, agentID)
}

// ListAgents retrieves a paginated list of agents. Admin only; the roster is
// not visible to regular agents.
func (s *agentService) ListAgents(ctx context.Context, params dto.ListAgentsParams, actorID string) ([]domain.Agent, error) {
	actor, err := s.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	return s.agentRepo.ListAgents(ctx, limit, offset)
}

// AuthenticateAgent verifies a badge number and password. Authentication
// failures are indistinguishable on purpose: a wrong badge, a wrong password
// and a deactivated account all return the same error.
func (s *agentService) AuthenticateAgent(ctx context.Context, badgeNumber, password string) (*domain.Agent, error) {
	creds, err := s.agentRepo.FindAgentCredentialsByBadge(ctx, badgeNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !creds.IsActive {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(password, creds.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	agent, err := s.agentRepo.FindAgentByID(ctx, creds.AgentID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "agent authenticated", "agentID", agent.AgentID)
	return agent, nil
}
