package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
)

var (
	userCounter    uint64
	roomCounter    uint64
	classCounter   uint64
	productCounter uint64
	orderCounter   uint64
	reviewCounter  uint64
	sessionCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic account record that can be
// materialised for application or persistence tests.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserAdmin sets the admin flag on the generated fixture.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(f *UserFixture) {
		f.IsAdmin = isAdmin
	}
}

// WithUserDisabled marks the generated account as disabled.
func WithUserDisabled(disabled bool) UserOption {
	return func(f *UserFixture) {
		f.Disabled = disabled
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Credentials returns the fixture as application.UserCredentials.
func (f UserFixture) Credentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.Application(),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, IsAdmin: f.IsAdmin}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		IsAdmin:      f.IsAdmin,
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic classroom record.
type RoomFixture struct {
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

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	capacity := int(4 + idx%8)
	fixture := RoomFixture{
		ID:        id,
		Name:      fmt.Sprintf("Studio %03d", idx),
		Capacity:  &capacity,
		X:         float64(idx) * 10,
		Y:         0,
		Width:     6,
		Height:    4,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomCapacity overrides the generated capacity. Nil clears it.
func WithRoomCapacity(capacity *int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// Application returns the fixture as an application.Room value.
func (f RoomFixture) Application() application.Room {
	return application.Room{
		ID:          f.ID,
		Name:        f.Name,
		Capacity:    f.Capacity,
		Description: f.Description,
		X:           f.X,
		Y:           f.Y,
		Width:       f.Width,
		Height:      f.Height,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:          f.ID,
		Name:        f.Name,
		Capacity:    f.Capacity,
		Description: f.Description,
		X:           f.X,
		Y:           f.Y,
		Width:       f.Width,
		Height:      f.Height,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ----------------------------- Class fixtures -----------------------------

// ClassFixture represents a deterministic class record. The default fixture
// is a non-recurring one hour lesson.
type ClassFixture struct {
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
	Pattern        application.RecurrencePattern
	RecurrenceKind application.RecurrenceKind
	RecurrenceEnd  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ClassOption configures the generated class fixture.
type ClassOption func(*ClassFixture)

// NewClassFixture returns a deterministic class fixture with optional overrides.
func NewClassFixture(opts ...ClassOption) ClassFixture {
	idx := atomic.AddUint64(&classCounter, 1)
	id := fmt.Sprintf("class-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := ClassFixture{
		ID:          id,
		Title:       fmt.Sprintf("Lesson %03d", idx),
		RoomID:      "room-001",
		Date:        time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:00",
		Teacher:     "Ms. Ahn",
		MaxStudents: 8,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithClassID overrides the generated class ID.
func WithClassID(id string) ClassOption {
	return func(f *ClassFixture) {
		f.ID = id
	}
}

// WithClassRoom overrides the room the class is booked into.
func WithClassRoom(roomID string) ClassOption {
	return func(f *ClassFixture) {
		f.RoomID = roomID
	}
}

// WithClassDate overrides the origin date of the class.
func WithClassDate(date time.Time) ClassOption {
	return func(f *ClassFixture) {
		f.Date = date
	}
}

// WithClassTimes overrides the booked time slot.
func WithClassTimes(start, end string) ClassOption {
	return func(f *ClassFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithClassStudents sets the enrolled students.
func WithClassStudents(students ...string) ClassOption {
	return func(f *ClassFixture) {
		f.Students = students
	}
}

// WithClassRecurrence turns the fixture into a recurring series.
func WithClassRecurrence(pattern application.RecurrencePattern, kind application.RecurrenceKind, end *time.Time) ClassOption {
	return func(f *ClassFixture) {
		f.Recurring = true
		f.Pattern = pattern
		f.RecurrenceKind = kind
		f.RecurrenceEnd = end
	}
}

// Application returns the fixture as an application.Class value.
func (f ClassFixture) Application() application.Class {
	return application.Class{
		ID:             f.ID,
		Title:          f.Title,
		Description:    f.Description,
		RoomID:         f.RoomID,
		Date:           f.Date,
		StartTime:      f.StartTime,
		EndTime:        f.EndTime,
		Teacher:        f.Teacher,
		MaxStudents:    f.MaxStudents,
		Students:       f.Students,
		Recurring:      f.Recurring,
		Pattern:        f.Pattern,
		RecurrenceKind: f.RecurrenceKind,
		RecurrenceEnd:  f.RecurrenceEnd,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Class value.
func (f ClassFixture) Persistence() persistence.Class {
	return persistence.Class{
		ID:             f.ID,
		Title:          f.Title,
		Description:    f.Description,
		RoomID:         f.RoomID,
		Date:           f.Date,
		StartTime:      f.StartTime,
		EndTime:        f.EndTime,
		Teacher:        f.Teacher,
		MaxStudents:    f.MaxStudents,
		Students:       f.Students,
		Recurring:      f.Recurring,
		Pattern:        string(f.Pattern),
		RecurrenceKind: string(f.RecurrenceKind),
		RecurrenceEnd:  f.RecurrenceEnd,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// Input returns the fixture as an application.ClassInput.
func (f ClassFixture) Input() application.ClassInput {
	return application.ClassInput{
		Title:          f.Title,
		Description:    f.Description,
		RoomID:         f.RoomID,
		Date:           f.Date,
		StartTime:      f.StartTime,
		EndTime:        f.EndTime,
		Teacher:        f.Teacher,
		MaxStudents:    f.MaxStudents,
		Students:       f.Students,
		Recurring:      f.Recurring,
		Pattern:        f.Pattern,
		RecurrenceKind: f.RecurrenceKind,
		RecurrenceEnd:  f.RecurrenceEnd,
	}
}

// ----------------------------- Product fixtures -----------------------------

// ProductFixture represents a deterministic e-book record.
type ProductFixture struct {
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

// ProductOption configures the generated product fixture.
type ProductOption func(*ProductFixture)

// NewProductFixture returns a deterministic product fixture with optional overrides.
func NewProductFixture(opts ...ProductOption) ProductFixture {
	idx := atomic.AddUint64(&productCounter, 1)
	id := fmt.Sprintf("prod-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := ProductFixture{
		ID:         id,
		Title:      fmt.Sprintf("Method Book %03d", idx),
		Author:     fmt.Sprintf("Author %03d", idx),
		PriceCents: int64(1000 + idx*100),
		Category:   "piano",
		FileKey:    fmt.Sprintf("books/%s.epub", id),
		Published:  true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithProductID overrides the generated product ID.
func WithProductID(id string) ProductOption {
	return func(f *ProductFixture) {
		f.ID = id
	}
}

// WithProductPrice overrides the generated price.
func WithProductPrice(cents int64) ProductOption {
	return func(f *ProductFixture) {
		f.PriceCents = cents
	}
}

// WithProductPublished sets the published flag.
func WithProductPublished(published bool) ProductOption {
	return func(f *ProductFixture) {
		f.Published = published
	}
}

// WithProductCategory overrides the generated category.
func WithProductCategory(category string) ProductOption {
	return func(f *ProductFixture) {
		f.Category = category
	}
}

// Application returns the fixture as an application.Product value.
func (f ProductFixture) Application() application.Product {
	return application.Product{
		ID:          f.ID,
		Title:       f.Title,
		Author:      f.Author,
		Description: f.Description,
		PriceCents:  f.PriceCents,
		Category:    f.Category,
		CoverURL:    f.CoverURL,
		FileKey:     f.FileKey,
		Published:   f.Published,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Product value.
func (f ProductFixture) Persistence() persistence.Product {
	return persistence.Product{
		ID:          f.ID,
		Title:       f.Title,
		Author:      f.Author,
		Description: f.Description,
		PriceCents:  f.PriceCents,
		Category:    f.Category,
		CoverURL:    f.CoverURL,
		FileKey:     f.FileKey,
		Published:   f.Published,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ----------------------------- Order fixtures -----------------------------

// OrderFixture represents a deterministic order record. The default fixture
// is a pending single item order.
type OrderFixture struct {
	ID         string
	UserID     string
	Status     application.OrderStatus
	Items      []application.OrderItem
	TotalCents int64
	IntentID   string
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderOption configures the generated order fixture.
type OrderOption func(*OrderFixture)

// NewOrderFixture returns a deterministic order fixture with optional overrides.
func NewOrderFixture(opts ...OrderOption) OrderFixture {
	idx := atomic.AddUint64(&orderCounter, 1)
	id := fmt.Sprintf("order-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := OrderFixture{
		ID:     id,
		UserID: "user-001",
		Status: application.OrderPending,
		Items: []application.OrderItem{
			{ProductID: "prod-001", Title: "Method Book 001", UnitCents: 1100},
		},
		TotalCents: 1100,
		IntentID:   fmt.Sprintf("intent-%03d", idx),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOrderID overrides the generated order ID.
func WithOrderID(id string) OrderOption {
	return func(f *OrderFixture) {
		f.ID = id
	}
}

// WithOrderUser overrides the purchasing user.
func WithOrderUser(userID string) OrderOption {
	return func(f *OrderFixture) {
		f.UserID = userID
	}
}

// WithOrderItems replaces the item snapshots and recomputes the total.
func WithOrderItems(items ...application.OrderItem) OrderOption {
	return func(f *OrderFixture) {
		f.Items = items
		var total int64
		for _, item := range items {
			total += item.UnitCents
		}
		f.TotalCents = total
	}
}

// WithOrderPaid marks the fixture as paid at the given time.
func WithOrderPaid(paidAt time.Time) OrderOption {
	return func(f *OrderFixture) {
		f.Status = application.OrderPaid
		f.PaidAt = &paidAt
		f.UpdatedAt = paidAt
	}
}

// Application returns the fixture as an application.Order value.
func (f OrderFixture) Application() application.Order {
	return application.Order{
		ID:         f.ID,
		UserID:     f.UserID,
		Status:     f.Status,
		Items:      f.Items,
		TotalCents: f.TotalCents,
		IntentID:   f.IntentID,
		PaidAt:     f.PaidAt,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Order value.
func (f OrderFixture) Persistence() persistence.Order {
	items := make([]persistence.OrderItem, 0, len(f.Items))
	for _, item := range f.Items {
		items = append(items, persistence.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitCents: item.UnitCents,
		})
	}
	return persistence.Order{
		ID:         f.ID,
		UserID:     f.UserID,
		Status:     string(f.Status),
		Items:      items,
		TotalCents: f.TotalCents,
		IntentID:   f.IntentID,
		PaidAt:     f.PaidAt,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// ----------------------------- Review fixtures -----------------------------

// ReviewFixture represents a deterministic product review.
type ReviewFixture struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewOption configures the generated review fixture.
type ReviewOption func(*ReviewFixture)

// NewReviewFixture returns a deterministic review fixture with optional overrides.
func NewReviewFixture(opts ...ReviewOption) ReviewFixture {
	idx := atomic.AddUint64(&reviewCounter, 1)
	id := fmt.Sprintf("review-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ReviewFixture{
		ID:        id,
		ProductID: "prod-001",
		UserID:    "user-001",
		Rating:    int(1 + idx%5),
		Body:      fmt.Sprintf("Review body %03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithReviewProduct overrides the reviewed product.
func WithReviewProduct(productID string) ReviewOption {
	return func(f *ReviewFixture) {
		f.ProductID = productID
	}
}

// WithReviewUser overrides the reviewing user.
func WithReviewUser(userID string) ReviewOption {
	return func(f *ReviewFixture) {
		f.UserID = userID
	}
}

// WithReviewRating overrides the generated rating.
func WithReviewRating(rating int) ReviewOption {
	return func(f *ReviewFixture) {
		f.Rating = rating
	}
}

// Application returns the fixture as an application.Review value.
func (f ReviewFixture) Application() application.Review {
	return application.Review{
		ID:        f.ID,
		ProductID: f.ProductID,
		UserID:    f.UserID,
		Rating:    f.Rating,
		Body:      f.Body,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Review value.
func (f ReviewFixture) Persistence() persistence.Review {
	return persistence.Review{
		ID:        f.ID,
		ProductID: f.ProductID,
		UserID:    f.UserID,
		Rating:    f.Rating,
		Body:      f.Body,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ----------------------------- Session fixtures -----------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	id := fmt.Sprintf("session-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SessionFixture{
		ID:        id,
		UserID:    "user-001",
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: created.Add(24 * time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionUser overrides the session owner.
func WithSessionUser(userID string) SessionOption {
	return func(f *SessionFixture) {
		f.UserID = userID
	}
}

// WithSessionExpiry overrides the session expiry.
func WithSessionExpiry(expires time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = expires
	}
}

// WithSessionRevoked marks the session as revoked at the given time.
func WithSessionRevoked(revokedAt time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.RevokedAt = &revokedAt
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	return application.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: f.RevokedAt,
	}
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: f.RevokedAt,
	}
}
