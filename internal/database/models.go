package database

import (
	"database/sql"
	"time"

	"github.com/astrobot/horoscopebot/internal/locale"
)

// Profile is the stored registration of one chat. A row only exists once
// every field has been collected and normalized.
type Profile struct {
	ChatID     int64           `db:"chat_id"`
	Name       string          `db:"name"`
	Birthdate  string          `db:"birthday"` // canonical YYYY-MM-DD
	Language   locale.Language `db:"language"`
	Profession string          `db:"profession"`
	Hobbies    string          `db:"hobbies"`
	Sex        string          `db:"sex"`
	CreatedAt  time.Time       `db:"created_at"`
	IsActive   bool            `db:"is_active"`

	// LastDeliveryDate is the YYYY-MM-DD of the last successful delivery in
	// the reference time zone. Null until the first delivery.
	LastDeliveryDate sql.NullString `db:"last_horoscope_date"`
}

// DeliveredOn reports whether the profile was already delivered on day.
func (p *Profile) DeliveredOn(day string) bool {
	return p.LastDeliveryDate.Valid && p.LastDeliveryDate.String == day
}

// Stats summarizes the users table.
type Stats struct {
	Total          int `db:"total"`
	Active         int `db:"active"`
	DeliveredToday int `db:"delivered_today"`
}
