package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contractor-booking/internal/converter"
	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/domain/repository"
	"contractor-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const dashboardLatestAppointments = 5

type AppointmentUsecase interface {
	GetAvailableSlots(ctx context.Context, contractorID uuid.UUID) (*dto.AvailableSlotsResponse, error)
	CreateBooking(ctx context.Context, userID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointmentStatus(ctx context.Context, userID, appointmentID uuid.UUID) (*dto.AppointmentStatusResponse, error)
	ListUserAppointments(ctx context.Context, userID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListContractorAppointments(ctx context.Context, contractorID uuid.UUID) (*dto.AppointmentListResponse, error)
	ListAllAppointments(ctx context.Context, status entity.AppointmentStatus) (*dto.AppointmentListResponse, error)
	ContractorDashboard(ctx context.Context, contractorID uuid.UUID) (*dto.ContractorDashboardResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	slotRepo        repository.SlotRepository
	contractorRepo  repository.ContractorRepository
	ratingRepo      repository.RatingRepository
	calculator      *service.SlotCalculator
	slotGate        service.SlotGate
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	slotRepo repository.SlotRepository,
	contractorRepo repository.ContractorRepository,
	ratingRepo repository.RatingRepository,
	calculator *service.SlotCalculator,
	slotGate service.SlotGate,
	opts ...Option,
) AppointmentUsecase {
	o := buildOptions(opts)
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		contractorRepo:  contractorRepo,
		ratingRepo:      ratingRepo,
		calculator:      calculator,
		slotGate:        slotGate,
		now:             o.now,
	}
}

// GetAvailableSlots returns the free slots of a contractor over the booking
// window, oldest day first.
func (u *appointmentUsecase) GetAvailableSlots(ctx context.Context, contractorID uuid.UUID) (*dto.AvailableSlotsResponse, error) {
	contractor, err := u.contractorRepo.FindByID(ctx, contractorID)
	if err != nil {
		u.log.Warnf("Failed to find contractor %s: %+v", contractorID, err)
		return nil, err
	}
	if contractor == nil {
		return nil, entity.ErrContractorNotFound
	}

	now := u.now()
	from, to := u.calculator.Window(now)
	reservations, err := u.slotRepo.FindByContractor(ctx, contractorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to load reservations of contractor %s: %+v", contractorID, err)
		return nil, err
	}

	booked := entity.NewBookedSlots(reservations)

	days := make([]dto.DaySlotsResponse, 0)
	for day := range u.calculator.AvailableSlots(now, booked) {
		days = append(days, converter.DaySlotsToResponse(day))
	}

	return &dto.AvailableSlotsResponse{
		ContractorID: contractorID,
		Days:         days,
	}, nil
}

// CreateBooking books one slot of a contractor for a user.
//
// Flow:
// 1. Validate the slot against the grid and the booking window
// 2. Load the contractor and snapshot its fee
// 3. Claim the slot in the gate (fast path, not authoritative)
// 4. Insert appointment and slot reservation in one transaction
// 5. If the insert fails, abandon the claim
func (u *appointmentUsecase) CreateBooking(ctx context.Context, userID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	contractorID, err := uuid.Parse(req.ContractorID)
	if err != nil {
		return nil, entity.NewValidationError("contractor_id", "must be a valid UUID")
	}
	slotDate, err := entity.ParseSlotDate(req.SlotDate)
	if err != nil {
		return nil, entity.NewValidationError("slot_date", "must be a date in YYYY-MM-DD format")
	}

	// Step 1: the slot must exist on the grid as seen right now
	if err := u.calculator.ValidateSlot(u.now(), slotDate, req.SlotTime); err != nil {
		return nil, err
	}

	// Step 2: contractor must accept bookings
	contractor, err := u.contractorRepo.FindByID(ctx, contractorID)
	if err != nil {
		u.log.Warnf("Failed to find contractor %s: %+v", contractorID, err)
		return nil, err
	}
	if contractor == nil {
		return nil, entity.ErrContractorNotFound
	}
	if !contractor.IsBookable() {
		return nil, entity.NewValidationError("contractor_id", "contractor is not accepting bookings")
	}

	// Step 3: fast-path claim
	token, claimed, err := u.claimSlot(ctx, contractorID, slotDate, req.SlotTime)
	if err != nil {
		return nil, err
	}

	// Step 4: authoritative insert
	appointment := &entity.Appointment{
		UserID:       userID,
		ContractorID: contractorID,
		SlotDate:     slotDate,
		SlotTime:     req.SlotTime,
		Amount:       contractor.Fees,
		Status:       entity.AppointmentStatusBooked,
	}
	if err := u.appointmentRepo.CreateWithReservation(ctx, appointment); err != nil {
		// Step 5: compensate
		if claimed {
			u.abandonClaim(contractorID, slotDate, req.SlotTime, token)
		}
		if errors.Is(err, entity.ErrSlotUnavailable) {
			return nil, err
		}
		u.log.Errorf("Failed to insert appointment for contractor %s: %+v", contractorID, err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, contractor=%s, slot=%s %s", appointment.ID, contractorID, slotDate.Key(), req.SlotTime)
	return converter.AppointmentToResponse(appointment), nil
}

// claimSlot reports claimed=false when the gate is unusable, in which case
// the database alone decides. A claim conflict only turns the booking away
// when the slot is actually reserved; otherwise the claim is stale or still
// in flight and the insert settles it.
func (u *appointmentUsecase) claimSlot(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime string) (string, bool, error) {
	if u.slotGate == nil {
		return "", false, nil
	}
	token, err := u.slotGate.Claim(ctx, contractorID, date, slotTime)
	switch {
	case err == nil:
		return token, true, nil
	case errors.Is(err, service.ErrSlotClaimed):
		reserved, err := u.isReserved(ctx, contractorID, date, slotTime)
		if err != nil {
			u.log.Warnf("Failed to check reservation behind slot claim, falling back to database: %+v", err)
			return "", false, nil
		}
		if reserved {
			return "", false, entity.ErrSlotUnavailable
		}
		u.log.Infof("Slot claim for contractor %s at %s %s has no reservation, deferring to database", contractorID, date.Key(), slotTime)
		return "", false, nil
	default:
		u.log.Warnf("Slot gate unavailable, falling back to database: %+v", err)
		return "", false, nil
	}
}

func (u *appointmentUsecase) isReserved(ctx context.Context, contractorID uuid.UUID, date entity.SlotDate, slotTime string) (bool, error) {
	reservations, err := u.slotRepo.FindByContractor(ctx, contractorID, date, date)
	if err != nil {
		return false, err
	}
	return entity.NewBookedSlots(reservations).Has(date, slotTime), nil
}

func (u *appointmentUsecase) abandonClaim(contractorID uuid.UUID, date entity.SlotDate, slotTime, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.slotGate.Abandon(ctx, contractorID, date, slotTime, token); err != nil {
		u.log.Errorf("Failed to abandon slot claim for contractor %s: %+v", contractorID, err)
	}
}

// CancelAppointment cancels on behalf of the owning user or contractor, or
// of an admin. The slot reservation is released in the same transaction.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	event := entity.EventCancel
	if actor.Role == entity.RoleAdmin {
		event = entity.EventAdminCancel
	}

	appointment, t, err := applyEvent(ctx, u.appointmentRepo, appointmentID, event, actor, "")
	if err != nil {
		if isStorageFailure(err) {
			u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		}
		return nil, err
	}

	if t.ReleasesSlot && u.slotGate != nil {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := u.slotGate.Release(releaseCtx, appointment.ContractorID, appointment.SlotDate, appointment.SlotTime); err != nil {
			// The gate is rebuilt from the database on next startup
			u.log.Warnf("Failed to release slot claim of appointment %s (non-fatal): %+v", appointmentID, err)
		}
	}

	u.log.Infof("Appointment cancelled: id=%s, by=%s", appointmentID, actor.Role)
	return converter.AppointmentToResponse(appointment), nil
}

// GetAppointment returns an appointment to its user, its contractor or an
// admin.
func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, appointment) {
		return nil, entity.ErrUnauthorized
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointmentStatus(ctx context.Context, userID, appointmentID uuid.UUID) (*dto.AppointmentStatusResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != userID {
		return nil, entity.ErrUnauthorized
	}
	return converter.AppointmentToStatusResponse(appointment), nil
}

func (u *appointmentUsecase) ListUserAppointments(ctx context.Context, userID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, &entity.AppointmentFilter{UserID: userID, NewestFirst: true})
}

func (u *appointmentUsecase) ListContractorAppointments(ctx context.Context, contractorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, &entity.AppointmentFilter{ContractorID: contractorID, NewestFirst: true})
}

func (u *appointmentUsecase) ListAllAppointments(ctx context.Context, status entity.AppointmentStatus) (*dto.AppointmentListResponse, error) {
	if status != "" && !status.IsValid() {
		return nil, entity.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	return u.list(ctx, &entity.AppointmentFilter{Status: status, NewestFirst: true})
}

func (u *appointmentUsecase) list(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.List(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// ContractorDashboard derives earnings, appointment and patient counts from
// the contractor's appointments and loads the rating aggregate concurrently.
func (u *appointmentUsecase) ContractorDashboard(ctx context.Context, contractorID uuid.UUID) (*dto.ContractorDashboardResponse, error) {
	var (
		appointments []entity.Appointment
		rating       *entity.ContractorRating
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		appointments, err = u.appointmentRepo.List(ctx, &entity.AppointmentFilter{ContractorID: contractorID, NewestFirst: true})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		rating, err = u.ratingRepo.FindByContractorID(ctx, contractorID)
		return err
	})
	if err := p.Wait(); err != nil {
		u.log.Warnf("Failed to build dashboard of contractor %s: %+v", contractorID, err)
		return nil, err
	}

	stats := entity.ComputeContractorStats(appointments)
	latest := appointments
	if len(latest) > dashboardLatestAppointments {
		latest = latest[:dashboardLatestAppointments]
	}
	return converter.StatsToDashboardResponse(stats, rating, latest), nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, entity.ErrAppointmentNotFound
	}
	return appointment, nil
}

func canView(actor entity.Actor, a *entity.Appointment) bool {
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleContractor:
		return a.ContractorID == actor.ID
	case entity.RoleUser:
		return a.UserID == actor.ID
	}
	return false
}
