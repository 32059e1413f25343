package repositories

import (
	"context"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// AgentReader defines read operations for agent data
type AgentReader interface {
	// FindAgentByID retrieves a specific agent by its unique identifier.
	FindAgentByID(ctx context.Context, agentID string) (*domain.Agent, error)

	// FindAgentByBadgeNumber retrieves an agent by their badge number.
	FindAgentByBadgeNumber(ctx context.Context, badgeNumber string) (*domain.Agent, error)

	// FindAgentCredentialsByBadge retrieves the login credentials for a badge
	// number. Used only by the auth service.
	FindAgentCredentialsByBadge(ctx context.Context, badgeNumber string) (*domain.AgentCredentials, error)

	// ListAgents retrieves a paginated list of agents.
	ListAgents(ctx context.Context, limit int, offset int) ([]domain.Agent, error)
}

// AgentWriter defines write operations for agent data
type AgentWriter interface {
	// SaveAgent persists a new agent with their password hash.
	SaveAgent(ctx context.Context, agent domain.Agent, passwordHash string) error

	// UpdateAgent updates an agent's mutable profile fields and active flag.
	UpdateAgent(ctx context.Context, agent domain.Agent) error
}

// AgentRepositoryFacade combines all agent-related repository interfaces
type AgentRepositoryFacade interface {
	AgentReader
	AgentWriter
}
