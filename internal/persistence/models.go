package persistence

import "time"

// User represents a storefront account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	IsAdmin      bool
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a classroom entry on the floor plan.
type Room struct {
	ID          string
	Name        string
	Capacity    *int
	Description string
	X           float64
	Y           float64
	Width       float64
	Height      float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Class represents a class record. A recurring series stores only its origin
// occurrence together with the recurrence fields.
type Class struct {
	ID             string
	Title          string
	Description    string
	RoomID         string
	Date           time.Time
	StartTime      string
	EndTime        string
	Teacher        string
	MaxStudents    int
	Students       []string
	Recurring      bool
	Pattern        string
	RecurrenceKind string
	RecurrenceEnd  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Product represents a digital e-book in the catalog.
type Product struct {
	ID          string
	Title       string
	Author      string
	Description string
	PriceCents  int64
	Category    string
	CoverURL    string
	FileKey     string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem snapshots one purchased product inside an order.
type OrderItem struct {
	ProductID string
	Title     string
	UnitCents int64
}

// Order represents a customer purchase and its payment state.
type Order struct {
	ID         string
	UserID     string
	Status     string
	Items      []OrderItem
	TotalCents int64
	IntentID   string
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Review represents a purchaser's product review.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
