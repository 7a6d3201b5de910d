package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/config"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/download"
	httptransport "github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/http"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/payment"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence"
	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the process environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close store", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	userRepo := newUserRepositoryAdapter(sqlite.NewUserRepository(store))
	roomRepo := newRoomRepositoryAdapter(sqlite.NewRoomRepository(store))
	classRepo := newClassRepositoryAdapter(sqlite.NewClassRepository(store))
	productRepo := newProductRepositoryAdapter(sqlite.NewProductRepository(store))
	orderRepo := newOrderRepositoryAdapter(sqlite.NewOrderRepository(store))
	reviewRepo := newReviewRepositoryAdapter(sqlite.NewReviewRepository(store))
	sessionRepo := newSessionRepositoryAdapter(sqlite.NewSessionRepository(store))
	roomCatalog := newRoomCatalogAdapter(sqlite.NewRoomRepository(store))
	credentialStore := newCredentialStoreAdapter(sqlite.NewUserRepository(store))

	gateway := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentAPIKey, logger)
	linker := download.NewSigner(cfg.DownloadBaseURL, cfg.DownloadSecret, cfg.DownloadTTL)

	scheduleService := application.NewScheduleServiceWithLogger(classRepo, roomCatalog, idGenerator, now, logger)
	scheduleService.SetLookaheadMonths(cfg.LookaheadMonths)
	roomService := application.NewRoomServiceWithLogger(roomRepo, idGenerator, now, logger)
	catalogService := application.NewCatalogServiceWithLogger(productRepo, idGenerator, now, logger)
	orderService := application.NewOrderServiceWithLogger(orderRepo, productRepo, gateway, linker, idGenerator, now, logger)
	reviewService := application.NewReviewServiceWithLogger(reviewRepo, orderRepo, idGenerator, now, logger)
	userService := application.NewUserService(userRepo, nil, idGenerator, now)
	authService := application.NewAuthServiceWithLogger(credentialStore, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:     httptransport.NewAuthHandler(authService, logger),
		Users:    httptransport.NewUserHandler(userService, logger),
		Rooms:    httptransport.NewRoomHandler(roomService, logger),
		Classes:  httptransport.NewClassHandler(scheduleService, logger),
		Products: httptransport.NewProductHandler(catalogService, logger),
		Orders:   httptransport.NewOrderHandler(orderService, logger),
		Reviews:  httptransport.NewReviewHandler(reviewService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireSession(authService, logger, httptransport.PublicRoutes()),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("storefront API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	if err := a.repo.CreateUser(ctx, toPersistenceUser(user, passwordHash)); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	current, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	updated := toPersistenceUser(user, current.PasswordHash)
	updated.Disabled = current.Disabled
	if err := a.repo.UpdateUser(ctx, updated); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return a.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return a.repo.DeleteUser(ctx, id)
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
		Disabled:     stored.Disabled,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repo.DeleteRoom(ctx, id)
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

type roomCatalogAdapter struct {
	repo persistence.RoomRepository
}

func newRoomCatalogAdapter(repo persistence.RoomRepository) *roomCatalogAdapter {
	return &roomCatalogAdapter{repo: repo}
}

func (a *roomCatalogAdapter) RoomExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetRoom(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type classRepositoryAdapter struct {
	repo persistence.ClassRepository
}

func newClassRepositoryAdapter(repo persistence.ClassRepository) *classRepositoryAdapter {
	return &classRepositoryAdapter{repo: repo}
}

func (a *classRepositoryAdapter) CreateClass(ctx context.Context, class application.Class) (application.Class, error) {
	if err := a.repo.CreateClass(ctx, toPersistenceClass(class)); err != nil {
		return application.Class{}, err
	}
	stored, err := a.repo.GetClass(ctx, class.ID)
	if err != nil {
		return application.Class{}, err
	}
	return toApplicationClass(stored), nil
}

func (a *classRepositoryAdapter) GetClass(ctx context.Context, id string) (application.Class, error) {
	stored, err := a.repo.GetClass(ctx, id)
	if err != nil {
		return application.Class{}, err
	}
	return toApplicationClass(stored), nil
}

func (a *classRepositoryAdapter) UpdateClass(ctx context.Context, class application.Class) (application.Class, error) {
	if err := a.repo.UpdateClass(ctx, toPersistenceClass(class)); err != nil {
		return application.Class{}, err
	}
	stored, err := a.repo.GetClass(ctx, class.ID)
	if err != nil {
		return application.Class{}, err
	}
	return toApplicationClass(stored), nil
}

func (a *classRepositoryAdapter) DeleteClass(ctx context.Context, id string) error {
	return a.repo.DeleteClass(ctx, id)
}

func (a *classRepositoryAdapter) ListClasses(ctx context.Context, filter application.ClassRepositoryFilter) ([]application.Class, error) {
	models, err := a.repo.ListClasses(ctx, persistence.ClassFilter{RoomID: filter.RoomID})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	classes := make([]application.Class, 0, len(models))
	for _, model := range models {
		classes = append(classes, toApplicationClass(model))
	}
	return classes, nil
}

type productRepositoryAdapter struct {
	repo persistence.ProductRepository
}

func newProductRepositoryAdapter(repo persistence.ProductRepository) *productRepositoryAdapter {
	return &productRepositoryAdapter{repo: repo}
}

func (a *productRepositoryAdapter) CreateProduct(ctx context.Context, product application.Product) (application.Product, error) {
	if err := a.repo.CreateProduct(ctx, toPersistenceProduct(product)); err != nil {
		return application.Product{}, err
	}
	stored, err := a.repo.GetProduct(ctx, product.ID)
	if err != nil {
		return application.Product{}, err
	}
	return toApplicationProduct(stored), nil
}

func (a *productRepositoryAdapter) GetProduct(ctx context.Context, id string) (application.Product, error) {
	stored, err := a.repo.GetProduct(ctx, id)
	if err != nil {
		return application.Product{}, err
	}
	return toApplicationProduct(stored), nil
}

func (a *productRepositoryAdapter) UpdateProduct(ctx context.Context, product application.Product) (application.Product, error) {
	if err := a.repo.UpdateProduct(ctx, toPersistenceProduct(product)); err != nil {
		return application.Product{}, err
	}
	stored, err := a.repo.GetProduct(ctx, product.ID)
	if err != nil {
		return application.Product{}, err
	}
	return toApplicationProduct(stored), nil
}

func (a *productRepositoryAdapter) DeleteProduct(ctx context.Context, id string) error {
	return a.repo.DeleteProduct(ctx, id)
}

func (a *productRepositoryAdapter) ListProducts(ctx context.Context) ([]application.Product, error) {
	models, err := a.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	products := make([]application.Product, 0, len(models))
	for _, model := range models {
		products = append(products, toApplicationProduct(model))
	}
	return products, nil
}

type orderRepositoryAdapter struct {
	repo persistence.OrderRepository
}

func newOrderRepositoryAdapter(repo persistence.OrderRepository) *orderRepositoryAdapter {
	return &orderRepositoryAdapter{repo: repo}
}

func (a *orderRepositoryAdapter) CreateOrder(ctx context.Context, order application.Order) (application.Order, error) {
	if err := a.repo.CreateOrder(ctx, toPersistenceOrder(order)); err != nil {
		return application.Order{}, err
	}
	stored, err := a.repo.GetOrder(ctx, order.ID)
	if err != nil {
		return application.Order{}, err
	}
	return toApplicationOrder(stored), nil
}

func (a *orderRepositoryAdapter) GetOrder(ctx context.Context, id string) (application.Order, error) {
	stored, err := a.repo.GetOrder(ctx, id)
	if err != nil {
		return application.Order{}, err
	}
	return toApplicationOrder(stored), nil
}

func (a *orderRepositoryAdapter) UpdateOrder(ctx context.Context, order application.Order) (application.Order, error) {
	if err := a.repo.UpdateOrder(ctx, toPersistenceOrder(order)); err != nil {
		return application.Order{}, err
	}
	stored, err := a.repo.GetOrder(ctx, order.ID)
	if err != nil {
		return application.Order{}, err
	}
	return toApplicationOrder(stored), nil
}

func (a *orderRepositoryAdapter) ListOrders(ctx context.Context) ([]application.Order, error) {
	models, err := a.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationOrders(models), nil
}

func (a *orderRepositoryAdapter) ListOrdersByUser(ctx context.Context, userID string) ([]application.Order, error) {
	models, err := a.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toApplicationOrders(models), nil
}

func (a *orderRepositoryAdapter) ListPaidOrders(ctx context.Context, from, to time.Time) ([]application.Order, error) {
	models, err := a.repo.ListPaidOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toApplicationOrders(models), nil
}

func (a *orderRepositoryAdapter) UserHasPaidProduct(ctx context.Context, userID, productID string) (bool, error) {
	return a.repo.UserHasPaidProduct(ctx, userID, productID)
}

// HasPurchased lets the adapter double as the purchase check behind reviews.
func (a *orderRepositoryAdapter) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	return a.repo.UserHasPaidProduct(ctx, userID, productID)
}

type reviewRepositoryAdapter struct {
	repo persistence.ReviewRepository
}

func newReviewRepositoryAdapter(repo persistence.ReviewRepository) *reviewRepositoryAdapter {
	return &reviewRepositoryAdapter{repo: repo}
}

func (a *reviewRepositoryAdapter) CreateReview(ctx context.Context, review application.Review) (application.Review, error) {
	if err := a.repo.CreateReview(ctx, toPersistenceReview(review)); err != nil {
		return application.Review{}, err
	}
	stored, err := a.repo.GetReview(ctx, review.ID)
	if err != nil {
		return application.Review{}, err
	}
	return toApplicationReview(stored), nil
}

func (a *reviewRepositoryAdapter) GetReview(ctx context.Context, id string) (application.Review, error) {
	stored, err := a.repo.GetReview(ctx, id)
	if err != nil {
		return application.Review{}, err
	}
	return toApplicationReview(stored), nil
}

func (a *reviewRepositoryAdapter) DeleteReview(ctx context.Context, id string) error {
	return a.repo.DeleteReview(ctx, id)
}

func (a *reviewRepositoryAdapter) ListReviewsByProduct(ctx context.Context, productID string) ([]application.Review, error) {
	models, err := a.repo.ListReviewsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	reviews := make([]application.Review, 0, len(models))
	for _, model := range models {
		reviews = append(reviews, toApplicationReview(model))
	}
	return reviews, nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) UpdateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.UpdateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		IsAdmin:     model.IsAdmin,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		IsAdmin:      user.IsAdmin,
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:          model.ID,
		Name:        model.Name,
		Capacity:    cloneInt(model.Capacity),
		Description: model.Description,
		X:           model.X,
		Y:           model.Y,
		Width:       model.Width,
		Height:      model.Height,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:          room.ID,
		Name:        room.Name,
		Capacity:    cloneInt(room.Capacity),
		Description: room.Description,
		X:           room.X,
		Y:           room.Y,
		Width:       room.Width,
		Height:      room.Height,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

func toApplicationClass(model persistence.Class) application.Class {
	return application.Class{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		RoomID:         model.RoomID,
		Date:           model.Date,
		StartTime:      model.StartTime,
		EndTime:        model.EndTime,
		Teacher:        model.Teacher,
		MaxStudents:    model.MaxStudents,
		Students:       append([]string(nil), model.Students...),
		Recurring:      model.Recurring,
		Pattern:        application.RecurrencePattern(model.Pattern),
		RecurrenceKind: application.RecurrenceKind(model.RecurrenceKind),
		RecurrenceEnd:  cloneTime(model.RecurrenceEnd),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toPersistenceClass(class application.Class) persistence.Class {
	return persistence.Class{
		ID:             class.ID,
		Title:          class.Title,
		Description:    class.Description,
		RoomID:         class.RoomID,
		Date:           class.Date,
		StartTime:      class.StartTime,
		EndTime:        class.EndTime,
		Teacher:        class.Teacher,
		MaxStudents:    class.MaxStudents,
		Students:       append([]string(nil), class.Students...),
		Recurring:      class.Recurring,
		Pattern:        string(class.Pattern),
		RecurrenceKind: string(class.RecurrenceKind),
		RecurrenceEnd:  cloneTime(class.RecurrenceEnd),
		CreatedAt:      class.CreatedAt,
		UpdatedAt:      class.UpdatedAt,
	}
}

func toApplicationProduct(model persistence.Product) application.Product {
	return application.Product{
		ID:          model.ID,
		Title:       model.Title,
		Author:      model.Author,
		Description: model.Description,
		PriceCents:  model.PriceCents,
		Category:    model.Category,
		CoverURL:    model.CoverURL,
		FileKey:     model.FileKey,
		Published:   model.Published,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceProduct(product application.Product) persistence.Product {
	return persistence.Product{
		ID:          product.ID,
		Title:       product.Title,
		Author:      product.Author,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		Category:    product.Category,
		CoverURL:    product.CoverURL,
		FileKey:     product.FileKey,
		Published:   product.Published,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toApplicationOrder(model persistence.Order) application.Order {
	items := make([]application.OrderItem, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, application.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitCents: item.UnitCents,
		})
	}
	return application.Order{
		ID:         model.ID,
		UserID:     model.UserID,
		Status:     application.OrderStatus(model.Status),
		Items:      items,
		TotalCents: model.TotalCents,
		IntentID:   model.IntentID,
		PaidAt:     cloneTime(model.PaidAt),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toApplicationOrders(models []persistence.Order) []application.Order {
	if len(models) == 0 {
		return nil
	}
	orders := make([]application.Order, 0, len(models))
	for _, model := range models {
		orders = append(orders, toApplicationOrder(model))
	}
	return orders
}

func toPersistenceOrder(order application.Order) persistence.Order {
	items := make([]persistence.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, persistence.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitCents: item.UnitCents,
		})
	}
	return persistence.Order{
		ID:         order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Items:      items,
		TotalCents: order.TotalCents,
		IntentID:   order.IntentID,
		PaidAt:     cloneTime(order.PaidAt),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

func toApplicationReview(model persistence.Review) application.Review {
	return application.Review{
		ID:        model.ID,
		ProductID: model.ProductID,
		UserID:    model.UserID,
		Rating:    model.Rating,
		Body:      model.Body,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceReview(review application.Review) persistence.Review {
	return persistence.Review{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Body:      review.Body,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
