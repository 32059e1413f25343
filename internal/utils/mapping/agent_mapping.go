package mapping

import (
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/models"
)

// ToDomainAgent converts a model Agent to a domain Agent. The password hash
// deliberately stays behind in the model.
func ToDomainAgent(m models.Agent) domain.Agent {
	return domain.Agent{
		AgentID:     m.AgentID,
		Name:        m.Name,
		BadgeNumber: m.BadgeNumber,
		Email:       m.Email,
		Phone:       m.Phone,
		Role:        domain.AgentRole(m.Role),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAgent converts a domain Agent to a model Agent. PasswordHash must be
// set separately by the caller when relevant.
func ToModelAgent(d domain.Agent) models.Agent {
	return models.Agent{
		AgentID:     d.AgentID,
		Name:        d.Name,
		BadgeNumber: d.BadgeNumber,
		Email:       d.Email,
		Phone:       d.Phone,
		Role:        models.AgentRole(d.Role),
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAgentSlice converts a slice of model Agents to domain Agents
func ToDomainAgentSlice(ms []models.Agent) []domain.Agent {
	out := make([]domain.Agent, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAgent(m)
	}
	return out
}
