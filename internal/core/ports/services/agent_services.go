package services

import (
	"context"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
)

// AgentReaderSvc defines read operations for agent data
type AgentReaderSvc interface {
	// GetAgentByID retrieves an agent by ID.
	GetAgentByID(ctx context.Context, agentID string) (*domain.Agent, error)

	// ListAgents retrieves a paginated list of agents (admin only).
	ListAgents(ctx context.Context, params dto.ListAgentsParams, actorID string) ([]domain.Agent, error)
}

// AgentWriterSvc defines write operations for agent data
type AgentWriterSvc interface {
	// CreateAgent registers a new agent (admin only).
	CreateAgent(ctx context.Context, req dto.CreateAgentRequest, actorID string) (*domain.Agent, error)

	// UpdateAgent updates an agent's profile (admin, or self for contact fields).
	UpdateAgent(ctx context.Context, agentID string, req dto.UpdateAgentRequest, actorID string) (*domain.Agent, error)

	// DeactivateAgent marks an agent inactive (admin only).
	DeactivateAgent(ctx context.Context, agentID string, actorID string) error
}

// AgentAuthSvc defines authentication operations
type AgentAuthSvc interface {
	// AuthenticateAgent verifies badge number and password, returning the
	// resolved agent on success.
	AuthenticateAgent(ctx context.Context, badgeNumber, password string) (*domain.Agent, error)
}

// AgentSvcFacade combines all agent-related service interfaces
type AgentSvcFacade interface {
	AgentReaderSvc
	AgentWriterSvc
	AgentAuthSvc
}
