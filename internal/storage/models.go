// Package storage holds the domain records and the sqlx-backed repositories
// and persistence adapter behind the workflow engine.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered bot user. Profile fields are nullable until the
// registration workflow completes.
type User struct {
	ID         uuid.UUID `db:"id"`
	Username   *string   `db:"username"`
	Role       *string   `db:"role"`
	FirstName  *string   `db:"first_name"`
	LastName   *string   `db:"last_name"`
	Age        *int      `db:"age"`
	Experience *int      `db:"experience"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Complete reports whether the profile has been filled in.
func (u *User) Complete() bool {
	return u.FirstName != nil && u.LastName != nil && u.Age != nil && u.Experience != nil
}

// Category is a fixed event category (Sports, Music, ...).
type Category struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Event is an organized gathering created through the event workflow.
type Event struct {
	ID           uuid.UUID `db:"id"`
	Title        string    `db:"title"`
	CategoryID   uuid.UUID `db:"category_id"`
	Location     string    `db:"location"`
	PeopleAmount int       `db:"people_amount"`
	Experience   int       `db:"experience"`
	DateTime     time.Time `db:"date_time"`
	OrganizerID  uuid.UUID `db:"organizer_id"`
	Description  string    `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Team is a player group created through the team workflow.
type Team struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	LogoURL     string    `db:"logo_url"`
	CreatorID   uuid.UUID `db:"creator_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Feedback is a free-text note left by a user.
type Feedback struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
