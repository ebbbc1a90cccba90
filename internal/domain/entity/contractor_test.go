package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContractorFilter_Matches(t *testing.T) {
	approved := &Contractor{Speciality: "Plumbing", IsApproved: true}
	pending := &Contractor{Speciality: "plumbing"}

	var none *ContractorFilter
	assert.True(t, none.Matches(pending))

	approvedOnly := &ContractorFilter{ApprovedOnly: true}
	assert.True(t, approvedOnly.Matches(approved))
	assert.False(t, approvedOnly.Matches(pending))

	plumbing := &ContractorFilter{Speciality: "PLUMBING"}
	assert.True(t, plumbing.Matches(approved))
	assert.True(t, plumbing.Matches(pending))
	assert.False(t, (&ContractorFilter{Speciality: "roofing"}).Matches(approved))
}

func TestNewContractorAudit(t *testing.T) {
	c := &Contractor{ID: uuid.New()}
	admin := Actor{ID: uuid.New(), Role: RoleAdmin}

	log := NewContractorAudit(c, admin, AuditActionContractorApprove, JSON{"from": false, "to": true})

	assert.Nil(t, log.AppointmentID)
	assert.Equal(t, admin.ID, *log.ActorID)
	assert.Equal(t, RoleAdmin, log.ActorRole)
	assert.Equal(t, AuditActionContractorApprove, log.Action)
	assert.Equal(t, JSON{"contractor_id": c.ID.String(), "from": false, "to": true}, log.Metadata)
}
