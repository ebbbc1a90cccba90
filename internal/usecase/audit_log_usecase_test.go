package usecase_test

import (
	"context"
	"testing"

	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOptions{})

	booked := f.book(t, userID, "10:00 AM")
	f.complete(t, booked.ID)
	_, err := f.ratings.SubmitRating(ctx, userID, booked.ID, 3)
	require.NoError(t, err)
	f.book(t, otherUserID, "10:30 AM")

	trail, err := f.auditLogs.GetAllAuditLogs(ctx, &entity.AuditLogFilter{AppointmentID: booked.ID})
	require.NoError(t, err)
	require.Equal(t, 4, trail.Total)

	actions := make([]string, 0, trail.Total)
	for _, l := range trail.Logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{
		entity.AuditActionAppointmentRate,
		entity.AuditActionAppointmentApprove,
		entity.AuditActionAppointmentSubmitProof,
		entity.AuditActionAppointmentBook,
	}, actions)
	assert.Equal(t, "admin", trail.Logs[1].ActorRole)
	assert.Equal(t, "completed", trail.Logs[1].Metadata["to"])

	bookings, err := f.auditLogs.GetAllAuditLogs(ctx, &entity.AuditLogFilter{Action: entity.AuditActionAppointmentBook, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, bookings.Total)

	one, err := f.auditLogs.GetAuditLog(ctx, trail.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionAppointmentRate, one.Action)

	_, err = f.auditLogs.GetAuditLog(ctx, 999999)
	assert.ErrorIs(t, err, usecase.ErrAuditLogNotFound)

	all, err := f.auditLogs.GetAllAuditLogs(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, all.Total)
}
