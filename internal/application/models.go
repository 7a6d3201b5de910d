package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// RoomInput captures caller provided room fields. Capacity is optional; the
// layout fields position the room on the back-office floor plan and have no
// scheduling meaning.
type RoomInput struct {
	Name        string
	Capacity    *int
	Description string
	X           float64
	Y           float64
	Width       float64
	Height      float64
}

// Room represents a classroom available for scheduling.
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

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// RecurrencePattern identifies the interval of a recurring class series.
type RecurrencePattern string

const (
	// RecurrenceNone indicates the class does not repeat.
	RecurrenceNone RecurrencePattern = ""
	// RecurrenceDaily repeats every day.
	RecurrenceDaily RecurrencePattern = "daily"
	// RecurrenceWeekly repeats on the origin's weekday.
	RecurrenceWeekly RecurrencePattern = "weekly"
	// RecurrenceBiweekly repeats on the origin's weekday every second week.
	RecurrenceBiweekly RecurrencePattern = "biweekly"
	// RecurrenceMonthly repeats on the origin's day of month.
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// RecurrenceKind distinguishes finite series from open-ended ones.
type RecurrenceKind string

const (
	// RecurrenceFinite bounds the series by RecurrenceEnd (inclusive).
	RecurrenceFinite RecurrenceKind = "finite"
	// RecurrenceInfinite leaves the series open-ended; expansion is bounded
	// by the schedule look-ahead window only.
	RecurrenceInfinite RecurrenceKind = "infinite"
)

// ClassInput captures caller provided class fields. Date is a calendar date;
// StartTime and EndTime are HH:MM wall-clock values within that date.
type ClassInput struct {
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
	Pattern        RecurrencePattern
	RecurrenceKind RecurrenceKind
	RecurrenceEnd  *time.Time
}

// Class represents a persisted class record. For a recurring series the
// record stores only the origin occurrence; later occurrences are derived.
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
	Pattern        RecurrencePattern
	RecurrenceKind RecurrenceKind
	RecurrenceEnd  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OccurrenceKey identifies one occurrence of a class on a specific date. It
// is the composite identity of virtual occurrences; for a real class the
// date equals the record's own date.
type OccurrenceKey struct {
	ClassID string
	Date    time.Time
}

// Occurrence projects a class onto a concrete date in the schedule window.
// Virtual occurrences clone the origin record with the derived date; they
// are never persisted.
type Occurrence struct {
	Key     OccurrenceKey
	Class   Class
	Virtual bool
}

// CreateClassParams wraps the data required to create a class.
type CreateClassParams struct {
	Principal Principal
	Input     ClassInput
}

// UpdateClassParams wraps the data required to update an existing class.
type UpdateClassParams struct {
	Principal Principal
	ClassID   string
	Input     ClassInput
}

// ListScheduleParams bounds a schedule listing. Nil bounds fall back to the
// default look-ahead window anchored at the service clock.
type ListScheduleParams struct {
	Principal Principal
	RoomID    string
	From      *time.Time
	To        *time.Time
}

// ProductInput captures caller provided e-book fields. PriceCents is the
// sale price in the shop currency's minor unit.
type ProductInput struct {
	Title       string
	Author      string
	Description string
	PriceCents  int64
	Category    string
	CoverURL    string
	FileKey     string
	Published   bool
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

// CreateProductParams wraps the data required to create a product.
type CreateProductParams struct {
	Principal Principal
	Input     ProductInput
}

// UpdateProductParams wraps the data required to update a product.
type UpdateProductParams struct {
	Principal Principal
	ProductID string
	Input     ProductInput
}

// ListProductsParams filters catalog listings. Unpublished products are
// visible to administrators only.
type ListProductsParams struct {
	Principal Principal
	Category  string
	Query     string
}

// OrderStatus tracks the payment lifecycle of an order.
type OrderStatus string

const (
	// OrderPending awaits payment confirmation.
	OrderPending OrderStatus = "pending"
	// OrderPaid has a verified successful payment.
	OrderPaid OrderStatus = "paid"
	// OrderFailed had its payment rejected or mismatched.
	OrderFailed OrderStatus = "failed"
)

// OrderItem snapshots a purchased product at checkout time.
type OrderItem struct {
	ProductID string
	Title     string
	UnitCents int64
}

// Order represents a customer purchase.
type Order struct {
	ID         string
	UserID     string
	Status     OrderStatus
	Items      []OrderItem
	TotalCents int64
	IntentID   string
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CheckoutParams wraps the data required to start a purchase.
type CheckoutParams struct {
	Principal  Principal
	ProductIDs []string
}

// CheckoutResult carries the pending order and the gateway redirect URL the
// customer completes payment at.
type CheckoutResult struct {
	Order      Order
	PaymentURL string
}

// DownloadLink grants time-limited access to a purchased e-book file.
type DownloadLink struct {
	ProductID string
	Title     string
	URL       string
	ExpiresAt time.Time
}

// DailySales aggregates paid orders for one calendar day.
type DailySales struct {
	Date       time.Time
	OrderCount int
	TotalCents int64
}

// ProductSales aggregates paid units of one product.
type ProductSales struct {
	ProductID  string
	Title      string
	UnitsSold  int
	TotalCents int64
}

// SalesSummary is the admin revenue report over a date range.
type SalesSummary struct {
	From       time.Time
	To         time.Time
	OrderCount int
	TotalCents int64
	Days       []DailySales
	Products   []ProductSales
}

// SalesSummaryParams wraps the data required to build a sales report.
type SalesSummaryParams struct {
	Principal Principal
	From      time.Time
	To        time.Time
}

// ReviewInput captures caller provided review fields.
type ReviewInput struct {
	ProductID string
	Rating    int
	Body      string
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

// AddReviewParams wraps the data required to add a review.
type AddReviewParams struct {
	Principal Principal
	Input     ReviewInput
}

// RatingSummary aggregates the reviews of one product.
type RatingSummary struct {
	ProductID string
	Count     int
	Average   float64
}

// UserInput captures caller provided user attributes. Password is required
// on create and optional on update.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// User represents an account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User           User
	PasswordHash   string
	Disabled       bool
	FailedAttempts int
	LastFailedAt   *time.Time
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// RefreshSessionParams captures the data required to rotate a session token.
type RefreshSessionParams struct {
	Token string
}

// RefreshSessionResult captures the rotated session.
type RefreshSessionResult struct {
	Session Session
}
