package domain

// AgentRole defines the role of an agent within the task force.
type AgentRole string

const (
	RoleAgent AgentRole = "AGENT"
	RoleAdmin AgentRole = "ADMIN"
)

// Agent represents a task-force member who can hold operational funds.
// Admins review records but never hold funds themselves.
type Agent struct {
	AgentID     string    `json:"agentID"` // Primary Key (e.g., UUID)
	Name        string    `json:"name"`
	BadgeNumber string    `json:"badgeNumber"` // Unique login identifier
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        AgentRole `json:"role"`
	IsActive    bool      `json:"isActive"`
	AuditFields
}

// IsAdmin reports whether the agent holds the admin role.
func (a Agent) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AgentCredentials carries the fields needed to verify a login. It is the
// only place a password hash crosses the repository boundary.
type AgentCredentials struct {
	AgentID      string
	PasswordHash string
	Role         AgentRole
	IsActive     bool
}
