// Package memory is an in-process implementation of the appointment store.
// A single mutex makes every write method atomic, which gives the same
// guarantees the postgres store gets from transactions and unique indexes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"contractor-booking/internal/domain/entity"
	domainRepo "contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
)

type slotKey struct {
	contractorID uuid.UUID
	date         entity.SlotDate
	time         string
}

type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	appointments map[uuid.UUID]*entity.Appointment
	reservations map[slotKey]entity.SlotReservation
	contractors  map[uuid.UUID]*entity.Contractor
	ratings      map[uuid.UUID]*entity.ContractorRating
	auditLogs    []entity.AuditLog
	nextID       int64
}

func NewStore() *Store {
	return &Store{
		now:          time.Now,
		appointments: map[uuid.UUID]*entity.Appointment{},
		reservations: map[slotKey]entity.SlotReservation{},
		contractors:  map[uuid.UUID]*entity.Contractor{},
		ratings:      map[uuid.UUID]*entity.ContractorRating{},
	}
}

// PutContractor seeds or replaces a contractor record.
func (s *Store) PutContractor(c entity.Contractor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contractors[c.ID] = &c
}

// PutReservation occupies a slot without an appointment record. Used to seed
// legacy bookings.
func (s *Store) PutReservation(contractorID uuid.UUID, date entity.SlotDate, slotTime string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.reservations[slotKey{contractorID, date, slotTime}] = entity.SlotReservation{
		ID:            s.nextID,
		ContractorID:  contractorID,
		SlotDate:      date,
		SlotTime:      slotTime,
		AppointmentID: uuid.New(),
		CreatedAt:     s.now(),
	}
}

func (s *Store) Appointments() domainRepo.AppointmentRepository { return &appointmentRepository{s} }
func (s *Store) Slots() domainRepo.SlotRepository               { return &slotRepository{s} }
func (s *Store) Contractors() domainRepo.ContractorRepository   { return &contractorRepository{s} }
func (s *Store) Ratings() domainRepo.RatingRepository           { return &ratingRepository{s} }
func (s *Store) AuditLogs() domainRepo.AuditLogRepository       { return &auditLogRepository{s} }

func (s *Store) appendAudit(log *entity.AuditLog) {
	s.nextID++
	log.ID = s.nextID
	log.CreatedAt = s.now()
	s.auditLogs = append(s.auditLogs, *log)
}

type appointmentRepository struct{ s *Store }

func (r *appointmentRepository) CreateWithReservation(ctx context.Context, appointment *entity.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey{appointment.ContractorID, appointment.SlotDate, appointment.SlotTime}
	if _, taken := s.reservations[key]; taken {
		return entity.ErrSlotUnavailable
	}

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	if appointment.Version == 0 {
		appointment.Version = 1
	}
	now := s.now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	stored := *appointment
	s.appointments[appointment.ID] = &stored
	s.nextID++
	s.reservations[key] = entity.SlotReservation{
		ID:            s.nextID,
		ContractorID:  appointment.ContractorID,
		SlotDate:      appointment.SlotDate,
		SlotTime:      appointment.SlotTime,
		AppointmentID: appointment.ID,
		CreatedAt:     now,
	}
	s.appendAudit(entity.NewBookingAudit(appointment))
	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]entity.Appointment, 0)
	for _, a := range r.s.appointments {
		if filter.Matches(a) {
			result = append(result, *a)
		}
	}
	newestFirst := filter != nil && filter.NewestFirst
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		if newestFirst {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if filter != nil && filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *appointmentRepository) ApplyTransition(ctx context.Context, appointment *entity.Appointment, t entity.Transition, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.appointments[appointment.ID]
	if !ok {
		return entity.ErrAppointmentNotFound
	}
	if stored.Version != expectedVersion {
		return entity.ErrConcurrentUpdate
	}

	stored.Status = appointment.Status
	stored.ProofImage = appointment.ProofImage
	stored.CancelledBy = appointment.CancelledBy
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = s.now()

	if t.ReleasesSlot {
		delete(s.reservations, slotKey{stored.ContractorID, stored.SlotDate, stored.SlotTime})
	}

	appointment.Version = stored.Version
	appointment.UpdatedAt = stored.UpdatedAt
	s.appendAudit(entity.NewTransitionAudit(appointment, t))
	return nil
}

func (r *appointmentRepository) MarkRated(ctx context.Context, appointment *entity.Appointment, stars int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.appointments[appointment.ID]
	if !ok {
		return entity.ErrAppointmentNotFound
	}
	if err := stored.CanBeRated(); err != nil {
		return err
	}

	stored.HasBeenRated = true
	stored.Version++
	stored.UpdatedAt = s.now()

	aggregate, ok := s.ratings[stored.ContractorID]
	if !ok {
		aggregate = &entity.ContractorRating{ContractorID: stored.ContractorID}
		s.ratings[stored.ContractorID] = aggregate
	}
	aggregate.RatingSum += int64(stars)
	aggregate.RatingCount++
	aggregate.UpdatedAt = stored.UpdatedAt

	appointment.HasBeenRated = true
	appointment.Version = stored.Version
	s.appendAudit(entity.NewRatingAudit(appointment, stars))
	return nil
}

type slotRepository struct{ s *Store }

func (r *slotRepository) FindByContractor(ctx context.Context, contractorID uuid.UUID, from, to entity.SlotDate) ([]entity.SlotReservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []entity.SlotReservation
	for key, res := range r.s.reservations {
		if key.contractorID != contractorID || key.date.Before(from) || to.Before(key.date) {
			continue
		}
		result = append(result, res)
	}
	sortReservations(result)
	return result, nil
}

func (r *slotRepository) FindSince(ctx context.Context, since entity.SlotDate, offset, limit int) ([]entity.SlotReservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []entity.SlotReservation
	for key, res := range r.s.reservations {
		if !key.date.Before(since) {
			all = append(all, res)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func sortReservations(rs []entity.SlotReservation) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].SlotDate != rs[j].SlotDate {
			return rs[i].SlotDate.Before(rs[j].SlotDate)
		}
		return rs[i].SlotTime < rs[j].SlotTime
	})
}

type contractorRepository struct{ s *Store }

func (r *contractorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contractor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.contractors[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *contractorRepository) List(ctx context.Context, filter *entity.ContractorFilter) ([]entity.Contractor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]entity.Contractor, 0, len(r.s.contractors))
	for _, c := range r.s.contractors {
		if filter.Matches(c) {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (r *contractorRepository) Create(ctx context.Context, contractor *entity.Contractor, audit *entity.AuditLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if contractor.ID == uuid.Nil {
		contractor.ID = uuid.New()
	}
	if _, exists := s.contractors[contractor.ID]; exists {
		return entity.ErrContractorExists
	}
	now := s.now()
	contractor.CreatedAt = now
	contractor.UpdatedAt = now

	stored := *contractor
	s.contractors[contractor.ID] = &stored
	s.appendAudit(audit)
	return nil
}

func (r *contractorRepository) Update(ctx context.Context, contractor *entity.Contractor, audit *entity.AuditLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.contractors[contractor.ID]
	if !ok {
		return entity.ErrContractorNotFound
	}
	current.Name = contractor.Name
	current.Speciality = contractor.Speciality
	current.Fees = contractor.Fees
	current.Available = contractor.Available
	current.IsApproved = contractor.IsApproved
	current.UpdatedAt = s.now()
	contractor.CreatedAt = current.CreatedAt
	contractor.UpdatedAt = current.UpdatedAt

	s.appendAudit(audit)
	return nil
}

type ratingRepository struct{ s *Store }

func (r *ratingRepository) FindByContractorID(ctx context.Context, contractorID uuid.UUID) (*entity.ContractorRating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rating, ok := r.s.ratings[contractorID]
	if !ok {
		return &entity.ContractorRating{ContractorID: contractorID}, nil
	}
	clone := *rating
	return &clone, nil
}

type auditLogRepository struct{ s *Store }

func (r *auditLogRepository) FindAll(ctx context.Context, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []entity.AuditLog
	for i := len(r.s.auditLogs) - 1; i >= 0; i-- {
		log := r.s.auditLogs[i]
		if filter != nil {
			if filter.AppointmentID != uuid.Nil && (log.AppointmentID == nil || *log.AppointmentID != filter.AppointmentID) {
				continue
			}
			if filter.Action != "" && log.Action != filter.Action {
				continue
			}
		}
		result = append(result, log)
		if filter != nil && filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, log := range r.s.auditLogs {
		if log.ID == id {
			clone := log
			return &clone, nil
		}
	}
	return nil, nil
}
