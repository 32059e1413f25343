package services

import (
	"fmt"

	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// Operation identifies an action an actor may attempt on a workflow record.
type Operation string

const (
	OpCreate   Operation = "CREATE"
	OpRead     Operation = "READ"
	OpApprove  Operation = "APPROVE"
	OpReject   Operation = "REJECT"
	OpResubmit Operation = "RESUBMIT"
	OpDelete   Operation = "DELETE"
)

// RecordRef is the minimal view of a workflow record that the authorization
// policy needs: who the record belongs to (nil for pool-level records) and
// what state it is in.
type RecordRef struct {
	SubjectAgentID *string
	Status         domain.RecordStatus
}

// CanPerform is the single authorization predicate for the whole engine.
// It is a pure function of the actor, the operation, and the record; callers
// translate a false result into an authorization error.
//
// Rules:
//   - Nobody may delete an approved record, including admins.
//   - Resubmission is owner-only; an admin cannot resubmit another agent's
//     record on their behalf.
//   - Admins may otherwise read, approve, reject, create, and delete any
//     record, including pool-level ones.
//   - Non-admin agents operate strictly on their own records.
func CanPerform(actor *domain.Agent, op Operation, rec RecordRef) bool {
	if actor == nil {
		return false
	}

	owns := rec.SubjectAgentID != nil && *rec.SubjectAgentID == actor.AgentID

	if op == OpDelete && rec.Status == domain.StatusApproved {
		return false
	}
	if op == OpResubmit {
		return owns
	}
	if actor.IsAdmin() {
		return true
	}

	switch op {
	case OpCreate, OpRead, OpDelete:
		return owns
	default:
		// Approve and reject are review powers; agents never hold them.
		return false
	}
}

func requireAdmin(actor *domain.Agent) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", apperrors.ErrForbidden)
	}
	return nil
}

func authorize(actor *domain.Agent, op Operation, rec RecordRef) error {
	if !CanPerform(actor, op, rec) {
		return fmt.Errorf("%w: agent %s may not perform %s on this record", apperrors.ErrForbidden, actor.AgentID, op)
	}
	return nil
}
