package dto

import (
	"time"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// CreateAgentRequest defines the data needed to register a new agent.
type CreateAgentRequest struct {
	Name        string           `json:"name" binding:"required"`
	BadgeNumber string           `json:"badgeNumber" binding:"required"`
	Email       string           `json:"email" binding:"omitempty,email"`
	Phone       string           `json:"phone"`
	Role        domain.AgentRole `json:"role" binding:"required,oneof=AGENT ADMIN"`
	Password    string           `json:"password" binding:"required,min=8"`
}

// UpdateAgentRequest defines the mutable agent profile fields.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAgentRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
}

// AgentResponse defines the data returned for an agent.
type AgentResponse struct {
	AgentID     string           `json:"agentID"`
	Name        string           `json:"name"`
	BadgeNumber string           `json:"badgeNumber"`
	Email       string           `json:"email,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Role        domain.AgentRole `json:"role"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ToAgentResponse converts a domain.Agent to AgentResponse DTO
func ToAgentResponse(a *domain.Agent) AgentResponse {
	return AgentResponse{
		AgentID:     a.AgentID,
		Name:        a.Name,
		BadgeNumber: a.BadgeNumber,
		Email:       a.Email,
		Phone:       a.Phone,
		Role:        a.Role,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
	}
}

// ToListAgentResponse converts a slice of domain.Agent to AgentResponse DTOs
func ToListAgentResponse(agents []domain.Agent) []AgentResponse {
	res := make([]AgentResponse, len(agents))
	for i := range agents {
		res[i] = ToAgentResponse(&agents[i])
	}
	return res
}

// ListAgentsParams defines query parameters for listing agents.
type ListAgentsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
