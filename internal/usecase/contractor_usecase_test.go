package usecase_test

import (
	"context"
	"io"
	"testing"

	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContractorUsecase(f *fixture) usecase.ContractorUsecase {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return usecase.NewContractorUsecase(log, f.store.Contractors())
}

func TestRegisterContractor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOptions{})
	contractors := newContractorUsecase(f)
	newID := uuid.New()

	resp, err := contractors.RegisterContractor(ctx, newID, &dto.RegisterContractorRequest{
		Name:       "  Bright Sparks ",
		Speciality: "electrical",
		Fees:       decimal.RequireFromString("99.999"),
	})
	require.NoError(t, err)
	assert.Equal(t, newID, resp.ID)
	assert.Equal(t, "Bright Sparks", resp.Name)
	assert.False(t, resp.IsApproved)
	assert.True(t, resp.Available)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Fees))

	_, err = contractors.RegisterContractor(ctx, newID, &dto.RegisterContractorRequest{
		Name: "Again", Speciality: "electrical", Fees: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, entity.ErrContractorExists)

	_, err = contractors.GetContractor(ctx, newID)
	assert.ErrorIs(t, err, entity.ErrContractorNotFound)

	_, err = f.appointments.CreateBooking(ctx, userID, &dto.CreateAppointmentRequest{
		ContractorID: newID.String(), SlotDate: "2025-03-15", SlotTime: "10:00 AM",
	})
	assert.ErrorIs(t, err, entity.ErrValidation)

	logs, err := f.auditLogs.GetAllAuditLogs(ctx, &entity.AuditLogFilter{Action: entity.AuditActionContractorCreate})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Total)
	assert.Equal(t, "contractor", logs.Logs[0].ActorRole)
}

func TestRegisterContractor_RejectsBadFees(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOptions{})
	contractors := newContractorUsecase(f)

	for name, fees := range map[string]decimal.Decimal{
		"zero":      decimal.Zero,
		"negative":  decimal.NewFromInt(-5),
		"rounds to": decimal.RequireFromString("0.004"),
		"too large": decimal.New(1, 10),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := contractors.RegisterContractor(ctx, uuid.New(), &dto.RegisterContractorRequest{
				Name: "Broke", Speciality: "misc", Fees: fees,
			})
			assert.ErrorIs(t, err, entity.ErrValidation)
		})
	}
}

func TestDecideContractorApproval(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOptions{})
	contractors := newContractorUsecase(f)
	newID := uuid.New()

	_, err := contractors.RegisterContractor(ctx, newID, &dto.RegisterContractorRequest{
		Name: "Garden Crew", Speciality: "gardening", Fees: decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	resp, err := contractors.DecideContractorApproval(ctx, adminID, newID, true)
	require.NoError(t, err)
	assert.True(t, resp.IsApproved)

	booked, err := f.appointments.CreateBooking(ctx, userID, &dto.CreateAppointmentRequest{
		ContractorID: newID.String(), SlotDate: "2025-03-15", SlotTime: "10:00 AM",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(booked.Amount))

	// revoking stops new bookings and leaves existing ones alone
	resp, err = contractors.DecideContractorApproval(ctx, adminID, newID, false)
	require.NoError(t, err)
	assert.False(t, resp.IsApproved)

	_, err = f.appointments.CreateBooking(ctx, userID, &dto.CreateAppointmentRequest{
		ContractorID: newID.String(), SlotDate: "2025-03-15", SlotTime: "11:00 AM",
	})
	assert.ErrorIs(t, err, entity.ErrValidation)

	status, err := f.appointments.GetAppointmentStatus(ctx, userID, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, "booked", status.Status)

	_, err = contractors.DecideContractorApproval(ctx, adminID, uuid.New(), true)
	assert.ErrorIs(t, err, entity.ErrContractorNotFound)

	logs, err := f.auditLogs.GetAllAuditLogs(ctx, &entity.AuditLogFilter{Action: entity.AuditActionContractorRevoke})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Total)
	assert.Equal(t, newID.String(), logs.Logs[0].Metadata["contractor_id"])
}

func TestChangeAvailability(t *testing.T) {
	ctx := context.Background()
	self := entity.Actor{ID: contractorID, Role: entity.RoleContractor}
	admin := entity.Actor{ID: adminID, Role: entity.RoleAdmin}

	t.Run("contractor toggles own flag", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{})
		contractors := newContractorUsecase(f)

		resp, err := contractors.ChangeAvailability(ctx, self, contractorID)
		require.NoError(t, err)
		assert.False(t, resp.Available)

		_, err = f.appointments.CreateBooking(ctx, userID, bookingRequest("2025-03-15", "10:00 AM"))
		assert.ErrorIs(t, err, entity.ErrValidation)

		resp, err = contractors.ChangeAvailability(ctx, self, contractorID)
		require.NoError(t, err)
		assert.True(t, resp.Available)
		f.book(t, userID, "10:00 AM")
	})

	t.Run("admin toggles any contractor", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{})
		contractors := newContractorUsecase(f)

		resp, err := contractors.ChangeAvailability(ctx, admin, otherContractorID)
		require.NoError(t, err)
		assert.True(t, resp.Available)
	})

	t.Run("contractor cannot toggle another", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{})
		contractors := newContractorUsecase(f)

		_, err := contractors.ChangeAvailability(ctx, self, otherContractorID)
		assert.ErrorIs(t, err, entity.ErrUnauthorized)

		profile, err := contractors.GetOwnProfile(ctx, otherContractorID)
		require.NoError(t, err)
		assert.False(t, profile.Available)
	})

	t.Run("users cannot toggle", func(t *testing.T) {
		f := newFixture(t, fixtureOptions{})
		contractors := newContractorUsecase(f)

		_, err := contractors.ChangeAvailability(ctx, entity.Actor{ID: userID, Role: entity.RoleUser}, contractorID)
		assert.ErrorIs(t, err, entity.ErrUnauthorized)
	})
}

func TestUpdateContractorProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOptions{})
	contractors := newContractorUsecase(f)

	before := f.book(t, userID, "10:00 AM")

	fees := decimal.NewFromInt(650)
	resp, err := contractors.UpdateProfile(ctx, contractorID, &dto.UpdateContractorProfileRequest{
		Speciality: "plumbing and heating",
		Fees:       &fees,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pipe Works", resp.Name)
	assert.Equal(t, "plumbing and heating", resp.Speciality)
	assert.True(t, fees.Equal(resp.Fees))

	after := f.book(t, otherUserID, "10:30 AM")
	assert.True(t, decimal.NewFromInt(500).Equal(before.Amount))
	assert.True(t, fees.Equal(after.Amount))

	logs, err := f.auditLogs.GetAllAuditLogs(ctx, &entity.AuditLogFilter{Action: entity.AuditActionContractorUpdate})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Total)

	// nothing changed, nothing recorded
	_, err = contractors.UpdateProfile(ctx, contractorID, &dto.UpdateContractorProfileRequest{Fees: &fees})
	require.NoError(t, err)
	logs, err = f.auditLogs.GetAllAuditLogs(ctx, &entity.AuditLogFilter{Action: entity.AuditActionContractorUpdate})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Total)

	negative := decimal.NewFromInt(-1)
	_, err = contractors.UpdateProfile(ctx, contractorID, &dto.UpdateContractorProfileRequest{Fees: &negative})
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = contractors.UpdateProfile(ctx, uuid.New(), &dto.UpdateContractorProfileRequest{})
	assert.ErrorIs(t, err, entity.ErrContractorNotFound)
}

func TestListContractors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOptions{})
	contractors := newContractorUsecase(f)

	_, err := contractors.RegisterContractor(ctx, uuid.New(), &dto.RegisterContractorRequest{
		Name: "Pending Painter", Speciality: "painting", Fees: decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	added, err := contractors.AddContractor(ctx, adminID, &dto.CreateContractorRequest{
		Name: "Able Roofing", Speciality: "roofing", Fees: decimal.NewFromInt(400),
	})
	require.NoError(t, err)
	assert.True(t, added.IsApproved)

	approved, err := contractors.ListApprovedContractors(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 3, approved.Total)
	assert.Equal(t, "Able Roofing", approved.Contractors[0].Name)
	assert.Equal(t, "Away Electric", approved.Contractors[1].Name)
	assert.Equal(t, "Pipe Works", approved.Contractors[2].Name)

	roofing, err := contractors.ListApprovedContractors(ctx, " ROOFING ")
	require.NoError(t, err)
	require.Equal(t, 1, roofing.Total)
	assert.Equal(t, added.ID, roofing.Contractors[0].ID)

	painting, err := contractors.ListApprovedContractors(ctx, "painting")
	require.NoError(t, err)
	assert.Zero(t, painting.Total)

	all, err := contractors.ListAllContractors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)

	profile, err := contractors.GetContractor(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "roofing", profile.Speciality)
}

func TestAddContractor_WithIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOptions{})
	contractors := newContractorUsecase(f)
	unavailable := false

	id := uuid.New()
	resp, err := contractors.AddContractor(ctx, adminID, &dto.CreateContractorRequest{
		ID: id.String(), Name: "Tile Team", Speciality: "tiling", Fees: decimal.NewFromInt(120), Available: &unavailable,
	})
	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
	assert.False(t, resp.Available)

	_, err = contractors.AddContractor(ctx, adminID, &dto.CreateContractorRequest{
		ID: contractorID.String(), Name: "Clash", Speciality: "misc", Fees: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, entity.ErrContractorExists)
}
