package usecase_test

import (
	"context"
	"io"
	"testing"
	"time"

	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/repository/memory"
	"contractor-booking/internal/service"
	"contractor-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	contractorID      = uuid.MustParse("c0000000-0000-0000-0000-000000000001")
	otherContractorID = uuid.MustParse("c0000000-0000-0000-0000-000000000002")
	userID            = uuid.MustParse("d0000000-0000-0000-0000-000000000001")
	otherUserID       = uuid.MustParse("d0000000-0000-0000-0000-000000000002")
	adminID           = uuid.MustParse("e0000000-0000-0000-0000-000000000001")

	// 08:00 UTC on 14 March 2025
	fixedNow = time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)
)

type MockSlotGate struct {
	mock.Mock
}

func (m *MockSlotGate) Claim(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime string) (string, error) {
	args := m.Called(ctx, contractorID, date, slotTime)
	return args.String(0), args.Error(1)
}

func (m *MockSlotGate) Abandon(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime, token string) error {
	args := m.Called(ctx, contractorID, date, slotTime, token)
	return args.Error(0)
}

func (m *MockSlotGate) Release(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime string) error {
	args := m.Called(ctx, contractorID, date, slotTime)
	return args.Error(0)
}

type MockProofStorage struct {
	mock.Mock
}

func (m *MockProofStorage) Store(ctx context.Context, appointmentID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, appointmentID, filename, contentType, body)
	return args.String(0), args.Error(1)
}

type fixture struct {
	store        *memory.Store
	appointments usecase.AppointmentUsecase
	approvals    usecase.ApprovalUsecase
	ratings      usecase.RatingUsecase
	auditLogs    usecase.AuditLogUsecase
}

type fixtureOptions struct {
	gate    service.SlotGate
	storage service.ProofStorage
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewStore()
	store.PutContractor(entity.Contractor{
		ID:         contractorID,
		Name:       "Pipe Works",
		Speciality: "plumbing",
		Fees:       decimal.NewFromInt(500),
		Available:  true,
		IsApproved: true,
	})
	store.PutContractor(entity.Contractor{
		ID:         otherContractorID,
		Name:       "Away Electric",
		Speciality: "electrical",
		Fees:       decimal.NewFromInt(300),
		Available:  false,
		IsApproved: true,
	})

	calculator := service.NewSlotCalculator(service.SlotCalculatorOptions{})
	clock := usecase.WithClock(func() time.Time { return fixedNow })

	return &fixture{
		store:        store,
		appointments: usecase.NewAppointmentUsecase(log, store.Appointments(), store.Slots(), store.Contractors(), store.Ratings(), calculator, opts.gate, clock),
		approvals:    usecase.NewApprovalUsecase(log, store.Appointments(), opts.storage),
		ratings:      usecase.NewRatingUsecase(log, store.Appointments(), store.Contractors(), store.Ratings()),
		auditLogs:    usecase.NewAuditLogUsecase(log, store.AuditLogs()),
	}
}

func bookingRequest(slotDate, slotTime string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		ContractorID: contractorID.String(),
		SlotDate:     slotDate,
		SlotTime:     slotTime,
	}
}

// book creates an appointment for userID on 15 March at slotTime.
func (f *fixture) book(t *testing.T, user uuid.UUID, slotTime string) *dto.AppointmentResponse {
	t.Helper()
	resp, err := f.appointments.CreateBooking(context.Background(), user, bookingRequest("2025-03-15", slotTime))
	require.NoError(t, err)
	return resp
}

// complete drives an appointment through proof and approval.
func (f *fixture) complete(t *testing.T, id uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	_, err := f.approvals.SubmitProof(ctx, contractorID, id, "https://cdn.example.com/proof.jpg")
	require.NoError(t, err)
	_, err = f.approvals.DecideApproval(ctx, adminID, id, true)
	require.NoError(t, err)
}
