package entity

import (
	"fmt"
	"slices"
)

// AppointmentEvent is something an actor does to an appointment.
type AppointmentEvent string

const (
	EventSubmitProof AppointmentEvent = "submit_proof"
	EventCancel      AppointmentEvent = "cancel"
	EventApprove     AppointmentEvent = "approve"
	EventReject      AppointmentEvent = "reject"
	EventAdminCancel AppointmentEvent = "admin_cancel"
)

// Transition is the outcome of a legal event, handed to the store so it can
// apply the side effects in the same unit of work.
type Transition struct {
	Event        AppointmentEvent
	Actor        Actor
	From         AppointmentStatus
	To           AppointmentStatus
	ReleasesSlot bool
}

type transitionRule struct {
	from         AppointmentStatus
	event        AppointmentEvent
	roles        []Role
	to           AppointmentStatus
	needsProof   bool
	releasesSlot bool
}

// Owners may cancel only while the appointment is still booked. Once proof is
// under review only an admin can cancel.
var transitionTable = []transitionRule{
	{from: AppointmentStatusBooked, event: EventSubmitProof, roles: []Role{RoleContractor}, to: AppointmentStatusPendingApproval},
	{from: AppointmentStatusPendingApproval, event: EventSubmitProof, roles: []Role{RoleContractor}, to: AppointmentStatusPendingApproval},
	{from: AppointmentStatusBooked, event: EventCancel, roles: []Role{RoleUser, RoleContractor}, to: AppointmentStatusCancelled, releasesSlot: true},
	{from: AppointmentStatusPendingApproval, event: EventApprove, roles: []Role{RoleAdmin}, to: AppointmentStatusCompleted, needsProof: true},
	{from: AppointmentStatusPendingApproval, event: EventReject, roles: []Role{RoleAdmin}, to: AppointmentStatusRejected, needsProof: true},
	{from: AppointmentStatusBooked, event: EventAdminCancel, roles: []Role{RoleAdmin}, to: AppointmentStatusCancelled, releasesSlot: true},
	{from: AppointmentStatusPendingApproval, event: EventAdminCancel, roles: []Role{RoleAdmin}, to: AppointmentStatusCancelled, releasesSlot: true},
}

func findRule(from AppointmentStatus, event AppointmentEvent) (transitionRule, bool) {
	for _, rule := range transitionTable {
		if rule.from == from && rule.event == event {
			return rule, true
		}
	}
	return transitionRule{}, false
}

// mayPerform reports whether some rule lets role send event, whatever the
// current status.
func mayPerform(role Role, event AppointmentEvent) bool {
	for _, rule := range transitionTable {
		if rule.event == event && slices.Contains(rule.roles, role) {
			return true
		}
	}
	return false
}

// CanTransition reports whether event is legal from the given status for
// some actor. It ignores ownership and preconditions.
func CanTransition(from AppointmentStatus, event AppointmentEvent) bool {
	_, ok := findRule(from, event)
	return ok
}

// Apply validates event against the transition table and, only if every
// guard passes, mutates the appointment. On error nothing is changed. Role
// and ownership are checked before the status so a stranger never learns
// the state of an appointment.
//
// proofImage is used by EventSubmitProof and ignored otherwise.
func (a *Appointment) Apply(event AppointmentEvent, actor Actor, proofImage string) (Transition, error) {
	if !mayPerform(actor.Role, event) {
		return Transition{}, fmt.Errorf("%w: role %q cannot %s", ErrUnauthorized, actor.Role, event)
	}
	if err := a.checkOwnership(actor); err != nil {
		return Transition{}, err
	}
	rule, ok := findRule(a.Status, event)
	if !ok {
		return Transition{}, fmt.Errorf("%w: cannot %s a %s appointment", ErrInvalidTransition, event, a.Status)
	}
	if !slices.Contains(rule.roles, actor.Role) {
		return Transition{}, fmt.Errorf("%w: role %q cannot %s", ErrUnauthorized, actor.Role, event)
	}
	if event == EventSubmitProof && proofImage == "" {
		return Transition{}, NewValidationError("proof_image", "proof image is required")
	}
	if rule.needsProof && !a.HasProof() {
		return Transition{}, fmt.Errorf("%w: appointment has no completion proof", ErrPreconditionFailed)
	}

	t := Transition{
		Event:        event,
		Actor:        actor,
		From:         a.Status,
		To:           rule.to,
		ReleasesSlot: rule.releasesSlot,
	}

	a.Status = rule.to
	if event == EventSubmitProof {
		a.ProofImage = proofImage
	}
	if rule.to == AppointmentStatusCancelled {
		a.CancelledBy = actor.Role
	}
	return t, nil
}

func (a *Appointment) checkOwnership(actor Actor) error {
	switch actor.Role {
	case RoleContractor:
		if a.ContractorID != actor.ID {
			return fmt.Errorf("%w: appointment belongs to another contractor", ErrUnauthorized)
		}
	case RoleUser:
		if a.UserID != actor.ID {
			return fmt.Errorf("%w: appointment belongs to another user", ErrUnauthorized)
		}
	}
	return nil
}
