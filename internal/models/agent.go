package models

// AgentRole defines the role column values.
type AgentRole string

const (
	RoleAgent AgentRole = "AGENT"
	RoleAdmin AgentRole = "ADMIN"
)

// Agent represents a task-force member row. PasswordHash never leaves the
// repository/auth layer.
type Agent struct {
	AgentID      string    `db:"agent_id"`
	Name         string    `db:"name"`
	BadgeNumber  string    `db:"badge_number"` // Unique
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	Role         AgentRole `db:"role"`
	IsActive     bool      `db:"is_active"`
	PasswordHash string    `db:"password_hash"`
	AuditFields
}
