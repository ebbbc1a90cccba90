package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotDate_Key(t *testing.T) {
	d := SlotDate{Year: 2025, Month: time.March, Day: 15}
	assert.Equal(t, "15_3_2025", d.Key())
	assert.Equal(t, "2025-03-15", d.String())

	parsed, err := ParseSlotKey("15_3_2025")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestParseSlotKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "15-3-2025", "15_13_2025", "0_3_2025", "a_3_2025", "15_3"} {
		_, err := ParseSlotKey(key)
		assert.Error(t, err, key)
	}
}

func TestSlotDate_AddDaysAndBefore(t *testing.T) {
	d := SlotDate{Year: 2024, Month: time.February, Day: 28}
	assert.Equal(t, SlotDate{Year: 2024, Month: time.February, Day: 29}, d.AddDays(1))
	assert.Equal(t, SlotDate{Year: 2024, Month: time.March, Day: 1}, d.AddDays(2))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
}

func TestSlotDate_OfUsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC is already the next day in India
	utc := time.Date(2025, time.March, 14, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, SlotDate{Year: 2025, Month: time.March, Day: 15}, SlotDateOf(utc.In(kolkata)))
}

func TestSlotDate_ScanAndJSON(t *testing.T) {
	var d SlotDate
	require.NoError(t, d.Scan(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-15", d.String())

	require.NoError(t, d.Scan("2025-04-01T00:00:00Z"))
	assert.Equal(t, "2025-04-01", d.String())

	assert.Error(t, d.Scan(42))

	body, err := json.Marshal(struct {
		Date SlotDate `json:"date"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-04-01"}`, string(body))
}

func TestBookedSlots(t *testing.T) {
	date := SlotDate{Year: 2025, Month: time.March, Day: 15}
	booked := NewBookedSlots([]SlotReservation{
		{SlotDate: date, SlotTime: "10:30 AM"},
		{SlotDate: date, SlotTime: "10:00 AM"},
	})

	assert.True(t, booked.Has(date, "10:00 AM"))
	assert.False(t, booked.Has(date, "11:00 AM"))
	assert.False(t, booked.Has(date.AddDays(1), "10:00 AM"))
	assert.Len(t, booked["15_3_2025"], 2)
}
