package entity

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SlotTimeLayout is the label format of a slot, e.g. "10:30 AM".
const SlotTimeLayout = "03:04 PM"

// SlotDateLayout is the wire format of a SlotDate.
const SlotDateLayout = "2006-01-02"

// SlotDate is a calendar date without a time of day. Bookings are keyed by it,
// never by a timestamp.
type SlotDate struct {
	Year  int
	Month time.Month
	Day   int
}

// SlotDateOf returns the calendar date of t in t's location.
func SlotDateOf(t time.Time) SlotDate {
	y, m, d := t.Date()
	return SlotDate{Year: y, Month: m, Day: d}
}

// ParseSlotDate parses a YYYY-MM-DD string.
func ParseSlotDate(s string) (SlotDate, error) {
	t, err := time.Parse(SlotDateLayout, s)
	if err != nil {
		return SlotDate{}, err
	}
	return SlotDateOf(t), nil
}

// ParseSlotKey parses the D_M_YYYY key form produced by Key.
func ParseSlotKey(key string) (SlotDate, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return SlotDate{}, fmt.Errorf("invalid slot date key %q", key)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return SlotDate{}, fmt.Errorf("invalid slot date key %q: %w", key, err)
		}
		nums[i] = n
	}
	d := SlotDate{Year: nums[2], Month: time.Month(nums[1]), Day: nums[0]}
	if d.Month < time.January || d.Month > time.December || d.Day < 1 || d.Day > 31 {
		return SlotDate{}, fmt.Errorf("invalid slot date key %q", key)
	}
	return d, nil
}

// Key returns the D_M_YYYY form used as the booked-slot map key.
func (d SlotDate) Key() string {
	return fmt.Sprintf("%d_%d_%d", d.Day, int(d.Month), d.Year)
}

func (d SlotDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// In returns midnight of the date in loc.
func (d SlotDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days later.
func (d SlotDate) AddDays(n int) SlotDate {
	return SlotDateOf(d.In(time.UTC).AddDate(0, 0, n))
}

func (d SlotDate) Before(other SlotDate) bool {
	return d.In(time.UTC).Before(other.In(time.UTC))
}

func (d SlotDate) IsZero() bool {
	return d == SlotDate{}
}

// Value implements driver.Valuer so the date is stored in a DATE column.
func (d SlotDate) Value() (driver.Value, error) {
	return d.In(time.UTC), nil
}

// Scan implements sql.Scanner.
func (d *SlotDate) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = SlotDateOf(v)
		return nil
	case string:
		parsed, err := ParseSlotDate(v[:min(len(v), len(SlotDateLayout))])
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case nil:
		*d = SlotDate{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into SlotDate", value)
	}
}

func (d SlotDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *SlotDate) UnmarshalText(b []byte) error {
	parsed, err := ParseSlotDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SlotReservation is one occupied (contractor, date, time) cell. The unique
// index on those three columns is what serializes concurrent bookings.
type SlotReservation struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_slot_reservations_slot" json:"contractor_id"`
	SlotDate      SlotDate  `gorm:"type:date;not null;uniqueIndex:ux_slot_reservations_slot" json:"slot_date"`
	SlotTime      string    `gorm:"type:varchar(8);not null;uniqueIndex:ux_slot_reservations_slot" json:"slot_time"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SlotReservation) TableName() string {
	return "slot_reservations"
}

// BookedSlots maps a date key (D_M_YYYY) to the set of booked time labels.
// It is the read model the availability calculator consults.
type BookedSlots map[string]map[string]struct{}

// NewBookedSlots builds the map from reservations.
func NewBookedSlots(reservations []SlotReservation) BookedSlots {
	b := BookedSlots{}
	for _, r := range reservations {
		b.Add(r.SlotDate, r.SlotTime)
	}
	return b
}

func (b BookedSlots) Add(date SlotDate, slotTime string) {
	key := date.Key()
	if b[key] == nil {
		b[key] = map[string]struct{}{}
	}
	b[key][slotTime] = struct{}{}
}

func (b BookedSlots) Has(date SlotDate, slotTime string) bool {
	_, ok := b[date.Key()][slotTime]
	return ok
}

// DaySlots is the set of bookable labels of a single date, chronological.
type DaySlots struct {
	Date  SlotDate
	Times []string
}
