package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanBeRated(t *testing.T) {
	a := newAppointment(AppointmentStatusBooked)
	assert.ErrorIs(t, a.CanBeRated(), ErrNotEligible)

	a.Status = AppointmentStatusRejected
	assert.ErrorIs(t, a.CanBeRated(), ErrNotEligible)

	a.Status = AppointmentStatusCompleted
	assert.NoError(t, a.CanBeRated())
	assert.True(t, a.IsCompleted())

	a.HasBeenRated = true
	assert.ErrorIs(t, a.CanBeRated(), ErrAlreadyRated)
}

func TestHoldsSlot(t *testing.T) {
	for _, status := range []AppointmentStatus{
		AppointmentStatusBooked,
		AppointmentStatusPendingApproval,
		AppointmentStatusCompleted,
		AppointmentStatusRejected,
	} {
		assert.True(t, newAppointment(status).HoldsSlot(), status)
	}
	assert.False(t, newAppointment(AppointmentStatusCancelled).HoldsSlot())
}

func TestAppointmentFilter_Matches(t *testing.T) {
	a := newAppointment(AppointmentStatusPendingApproval)

	assert.True(t, (*AppointmentFilter)(nil).Matches(a))
	assert.True(t, (&AppointmentFilter{UserID: a.UserID}).Matches(a))
	assert.False(t, (&AppointmentFilter{UserID: uuid.New()}).Matches(a))
	assert.False(t, (&AppointmentFilter{ContractorID: uuid.New()}).Matches(a))
	assert.False(t, (&AppointmentFilter{Status: AppointmentStatusBooked}).Matches(a))
	assert.False(t, (&AppointmentFilter{HasProof: true}).Matches(a))

	a.ProofImage = "ref"
	assert.True(t, (&AppointmentFilter{Status: AppointmentStatusPendingApproval, HasProof: true}).Matches(a))
}

func TestComputeContractorStats(t *testing.T) {
	repeatUser := uuid.New()
	appointments := []Appointment{
		{UserID: repeatUser, Amount: decimal.NewFromInt(500), Status: AppointmentStatusCompleted},
		{UserID: repeatUser, Amount: decimal.NewFromInt(300), Status: AppointmentStatusCompleted},
		{UserID: uuid.New(), Amount: decimal.NewFromInt(500), Status: AppointmentStatusRejected},
		{UserID: uuid.New(), Amount: decimal.NewFromInt(250), Status: AppointmentStatusCancelled},
		{UserID: uuid.New(), Amount: decimal.NewFromInt(100), Status: AppointmentStatusBooked},
	}

	stats := ComputeContractorStats(appointments)

	assert.True(t, decimal.NewFromInt(800).Equal(stats.Earnings), stats.Earnings.String())
	assert.Equal(t, 5, stats.Appointments)
	assert.Equal(t, 4, stats.Patients)
}

func TestContractorRating_Average(t *testing.T) {
	assert.Zero(t, ContractorRating{}.Average())
	assert.InDelta(t, 4.5, ContractorRating{RatingSum: 9, RatingCount: 2}.Average(), 1e-9)
}

func TestNewTransitionAudit(t *testing.T) {
	a := newAppointment(AppointmentStatusBooked)
	actor := Actor{ID: a.UserID, Role: RoleUser}
	tr, err := a.Apply(EventCancel, actor, "")
	assert.NoError(t, err)

	log := NewTransitionAudit(a, tr)

	assert.Equal(t, AuditActionAppointmentCancel, log.Action)
	assert.Equal(t, a.ID, *log.AppointmentID)
	assert.Equal(t, actor.ID, *log.ActorID)
	assert.Equal(t, "booked", log.Metadata["from"])
	assert.Equal(t, "cancelled", log.Metadata["to"])
	assert.Equal(t, true, log.Metadata["released_slot"])
}
