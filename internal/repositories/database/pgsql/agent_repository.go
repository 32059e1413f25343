package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	portsrepo "github.com/taskforce-tools/op_funds_app/internal/core/ports/repositories"
	"github.com/taskforce-tools/op_funds_app/internal/models"
	"github.com/taskforce-tools/op_funds_app/internal/utils/mapping"
)

type PgxAgentRepository struct {
	BaseRepository
}

// newPgxAgentRepository creates a new repository for agent data.
func newPgxAgentRepository(pool *pgxpool.Pool) portsrepo.AgentRepositoryFacade {
	return &PgxAgentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AgentRepositoryFacade = (*PgxAgentRepository)(nil)

// Password hash is excluded from the general select on purpose; only
// FindAgentCredentialsByBadge reads it.
var FULL_AGENT_SELECT_QUERY = `
SELECT
	a.agent_id, a.name, a.badge_number, a.email, a.phone, a.role, a.is_active,
	a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
FROM agents a
`

// agentRow mirrors models.Agent minus the password hash column.
type agentRow struct {
	AgentID     string           `db:"agent_id"`
	Name        string           `db:"name"`
	BadgeNumber string           `db:"badge_number"`
	Email       string           `db:"email"`
	Phone       string           `db:"phone"`
	Role        models.AgentRole `db:"role"`
	IsActive    bool             `db:"is_active"`
	models.AuditFields
}

func (r *PgxAgentRepository) getAgents(ctx context.Context, filterQuery string, args ...any) ([]domain.Agent, error) {
	query := FULL_AGENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query agents", err)
	}
	defer rows.Close()
	agentRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[agentRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Agent{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect agent rows", err)
	}

	agents := make([]domain.Agent, len(agentRows))
	for i, row := range agentRows {
		agents[i] = mapping.ToDomainAgent(models.Agent{
			AgentID:     row.AgentID,
			Name:        row.Name,
			BadgeNumber: row.BadgeNumber,
			Email:       row.Email,
			Phone:       row.Phone,
			Role:        row.Role,
			IsActive:    row.IsActive,
			AuditFields: row.AuditFields,
		})
	}
	return agents, nil
}

func (r *PgxAgentRepository) FindAgentByID(ctx context.Context, agentID string) (*domain.Agent, error) {
	agents, err := r.getAgents(ctx, `WHERE a.agent_id = $1`, agentID)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &agents[0], nil
}

func (r *PgxAgentRepository) FindAgentByBadgeNumber(ctx context.Context, badgeNumber string) (*domain.Agent, error) {
	agents, err := r.getAgents(ctx, `WHERE a.badge_number = $1`, badgeNumber)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &agents[0], nil
}

func (r *PgxAgentRepository) FindAgentCredentialsByBadge(ctx context.Context, badgeNumber string) (*domain.AgentCredentials, error) {
	var creds domain.AgentCredentials
	query := `SELECT agent_id, password_hash, role, is_active FROM agents WHERE badge_number = $1`
	err := r.Pool.QueryRow(ctx, query, badgeNumber).Scan(&creds.AgentID, &creds.PasswordHash, &creds.Role, &creds.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query agent credentials", err)
	}
	return &creds, nil
}

func (r *PgxAgentRepository) ListAgents(ctx context.Context, limit int, offset int) ([]domain.Agent, error) {
	return r.getAgents(ctx, `ORDER BY a.name ASC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PgxAgentRepository) SaveAgent(ctx context.Context, agent domain.Agent, passwordHash string) error {
	model := mapping.ToModelAgent(agent)
	query := `
		INSERT INTO agents (
			agent_id, name, badge_number, email, phone, role, is_active, password_hash,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.AgentID,
		model.Name,
		model.BadgeNumber,
		model.Email,
		model.Phone,
		model.Role,
		model.IsActive,
		passwordHash,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: badge number %s", apperrors.ErrDuplicate, agent.BadgeNumber)
		}
		return apperrors.NewAppError(500, "failed to save agent "+agent.AgentID, err)
	}
	return nil
}

func (r *PgxAgentRepository) UpdateAgent(ctx context.Context, agent domain.Agent) error {
	model := mapping.ToModelAgent(agent)
	query := `
		UPDATE agents
		SET name = $2, email = $3, phone = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE agent_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		model.AgentID,
		model.Name,
		model.Email,
		model.Phone,
		model.IsActive,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update agent "+agent.AgentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
