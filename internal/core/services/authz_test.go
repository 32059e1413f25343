package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/core/services"
)

func TestCanPerform(t *testing.T) {
	admin := newTestAdmin()
	owner := newTestAgent()
	other := newTestAgent()

	ownRec := func(status domain.RecordStatus) services.RecordRef {
		return services.RecordRef{SubjectAgentID: &owner.AgentID, Status: status}
	}
	poolRec := func(status domain.RecordStatus) services.RecordRef {
		return services.RecordRef{SubjectAgentID: nil, Status: status}
	}

	tests := []struct {
		name  string
		actor *domain.Agent
		op    services.Operation
		rec   services.RecordRef
		want  bool
	}{
		{"nil actor denied", nil, services.OpRead, ownRec(domain.StatusPending), false},

		// Approved records are immutable history for everyone.
		{"admin cannot delete approved", admin, services.OpDelete, ownRec(domain.StatusApproved), false},
		{"owner cannot delete approved", owner, services.OpDelete, ownRec(domain.StatusApproved), false},
		{"admin cannot delete approved pool record", admin, services.OpDelete, poolRec(domain.StatusApproved), false},

		// Resubmission is strictly owner-only.
		{"owner may resubmit", owner, services.OpResubmit, ownRec(domain.StatusRejected), true},
		{"admin may not resubmit another agent's record", admin, services.OpResubmit, ownRec(domain.StatusRejected), false},
		{"other agent may not resubmit", other, services.OpResubmit, ownRec(domain.StatusRejected), false},
		{"nobody may resubmit a pool record", admin, services.OpResubmit, poolRec(domain.StatusRejected), false},

		// Admin otherwise has full reach.
		{"admin reads any record", admin, services.OpRead, ownRec(domain.StatusPending), true},
		{"admin reads pool record", admin, services.OpRead, poolRec(domain.StatusApproved), true},
		{"admin approves", admin, services.OpApprove, ownRec(domain.StatusPending), true},
		{"admin rejects", admin, services.OpReject, ownRec(domain.StatusPending), true},
		{"admin deletes pending", admin, services.OpDelete, ownRec(domain.StatusPending), true},

		// Agents operate on their own records only.
		{"owner reads own", owner, services.OpRead, ownRec(domain.StatusPending), true},
		{"other agent cannot read", other, services.OpRead, ownRec(domain.StatusPending), false},
		{"owner cannot read pool record", owner, services.OpRead, poolRec(domain.StatusApproved), false},
		{"owner deletes own pending", owner, services.OpDelete, ownRec(domain.StatusPending), true},
		{"other agent cannot delete", other, services.OpDelete, ownRec(domain.StatusPending), false},

		// Review powers are admin-only.
		{"owner cannot approve own", owner, services.OpApprove, ownRec(domain.StatusPending), false},
		{"owner cannot reject own", owner, services.OpReject, ownRec(domain.StatusPending), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.CanPerform(tt.actor, tt.op, tt.rec))
		})
	}
}
