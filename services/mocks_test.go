package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/models"
	"go-shop/repository"
)

// memProductRepo is an in-memory products store whose ReserveStock performs
// the same compare-and-decrement the database does, under a mutex.
type memProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newMemProductRepo(products ...*models.Product) *memProductRepo {
	repo := &memProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
	for _, product := range products {
		repo.products[product.ID] = product
	}
	return repo
}

func (r *memProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *memProductRepo) ReserveStock(_ context.Context, id primitive.ObjectID, amount int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return false, nil
	}
	if product.CountInStock < amount {
		return false, nil
	}
	product.CountInStock -= amount
	product.Sold += amount
	return true, nil
}

func (r *memProductRepo) ReleaseStock(_ context.Context, id primitive.ObjectID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	product.CountInStock += amount
	product.Sold -= amount
	return nil
}

// orderRepoMock is a func-field order store; unset methods panic so a test
// only needs to fill in what it exercises.
type orderRepoMock struct {
	CreateFn  func(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByIDFn func(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateFn  func(ctx context.Context, order *models.Order) error
	DeleteFn  func(ctx context.Context, id primitive.ObjectID) error
	ListFn    func(ctx context.Context, params repository.OrderListParams) ([]models.Order, int64, error)
}

func (m *orderRepoMock) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	return m.CreateFn(ctx, order)
}

func (m *orderRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *orderRepoMock) Update(ctx context.Context, order *models.Order) error {
	return m.UpdateFn(ctx, order)
}

func (m *orderRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.DeleteFn(ctx, id)
}

func (m *orderRepoMock) List(ctx context.Context, params repository.OrderListParams) ([]models.Order, int64, error) {
	return m.ListFn(ctx, params)
}

type paymentTypeRepoMock struct {
	GetByIDFn func(ctx context.Context, id primitive.ObjectID) (*models.PaymentType, error)
}

func (m *paymentTypeRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentType, error) {
	return m.GetByIDFn(ctx, id)
}

type userRepoMock struct {
	CreateFn          func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFn         func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmailFn      func(ctx context.Context, email string, userType int) (*models.User, error)
	ExistsByEmailFn   func(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error)
	UpdateFn          func(ctx context.Context, user *models.User) error
	AddDeviceTokenFn  func(ctx context.Context, id primitive.ObjectID, deviceToken string) error
	SetResetTokenFn   func(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error
	GetByResetTokenFn func(ctx context.Context, token string) (*models.User, error)
	SetPasswordFn     func(ctx context.Context, id primitive.ObjectID, hash string) error
	FindByRolesFn     func(ctx context.Context, roleIDs []primitive.ObjectID) ([]models.User, error)
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return m.CreateFn(ctx, user)
}

func (m *userRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string, userType int) (*models.User, error) {
	return m.GetByEmailFn(ctx, email, userType)
}

func (m *userRepoMock) ExistsByEmail(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	return m.ExistsByEmailFn(ctx, email, exclude)
}

func (m *userRepoMock) Update(ctx context.Context, user *models.User) error {
	return m.UpdateFn(ctx, user)
}

func (m *userRepoMock) AddDeviceToken(ctx context.Context, id primitive.ObjectID, deviceToken string) error {
	return m.AddDeviceTokenFn(ctx, id, deviceToken)
}

func (m *userRepoMock) SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error {
	return m.SetResetTokenFn(ctx, id, token, expiry)
}

func (m *userRepoMock) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return m.GetByResetTokenFn(ctx, token)
}

func (m *userRepoMock) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return m.SetPasswordFn(ctx, id, hash)
}

func (m *userRepoMock) FindByRoles(ctx context.Context, roleIDs []primitive.ObjectID) ([]models.User, error) {
	return m.FindByRolesFn(ctx, roleIDs)
}

type roleRepoMock struct {
	CreateFn           func(ctx context.Context, role *models.Role) (*models.Role, error)
	GetByIDFn          func(ctx context.Context, id primitive.ObjectID) (*models.Role, error)
	GetByNameFn        func(ctx context.Context, name string, exclude primitive.ObjectID) (*models.Role, error)
	UpdateFn           func(ctx context.Context, role *models.Role) error
	DeleteFn           func(ctx context.Context, id primitive.ObjectID) error
	DeleteManyFn       func(ctx context.Context, ids []primitive.ObjectID) error
	ListFn             func(ctx context.Context) ([]models.Role, error)
	FindByPermissionFn func(ctx context.Context, permission string) ([]models.Role, error)
}

func (m *roleRepoMock) Create(ctx context.Context, role *models.Role) (*models.Role, error) {
	return m.CreateFn(ctx, role)
}

func (m *roleRepoMock) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *roleRepoMock) GetByName(ctx context.Context, name string, exclude primitive.ObjectID) (*models.Role, error) {
	return m.GetByNameFn(ctx, name, exclude)
}

func (m *roleRepoMock) Update(ctx context.Context, role *models.Role) error {
	return m.UpdateFn(ctx, role)
}

func (m *roleRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.DeleteFn(ctx, id)
}

func (m *roleRepoMock) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	return m.DeleteManyFn(ctx, ids)
}

func (m *roleRepoMock) List(ctx context.Context) ([]models.Role, error) {
	return m.ListFn(ctx)
}

func (m *roleRepoMock) FindByPermission(ctx context.Context, permission string) ([]models.Role, error) {
	return m.FindByPermissionFn(ctx, permission)
}

type notificationRepoMock struct {
	CreateFn      func(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	ListByUserFn  func(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, int64, error)
	MarkReadFn    func(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllReadFn func(ctx context.Context, userID primitive.ObjectID) error
	DeleteFn      func(ctx context.Context, id primitive.ObjectID) error
}

func (m *notificationRepoMock) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	return m.CreateFn(ctx, notification)
}

func (m *notificationRepoMock) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, int64, error) {
	return m.ListByUserFn(ctx, userID, page, limit)
}

func (m *notificationRepoMock) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return m.MarkReadFn(ctx, id, userID)
}

func (m *notificationRepoMock) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return m.MarkAllReadFn(ctx, userID)
}

func (m *notificationRepoMock) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.DeleteFn(ctx, id)
}

// dispatchedEvent records one call to the notifier mock.
type dispatchedEvent struct {
	UserID      primitive.ObjectID
	Context     string
	Title       string
	ReferenceID string
}

type notifierMock struct {
	mu     sync.Mutex
	events []dispatchedEvent
}

func (m *notifierMock) Dispatch(_ context.Context, userID primitive.ObjectID, notifyContext, title, _ string, referenceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{
		UserID:      userID,
		Context:     notifyContext,
		Title:       title,
		ReferenceID: referenceID,
	})
}

func (m *notifierMock) titles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles := make([]string, 0, len(m.events))
	for _, event := range m.events {
		titles = append(titles, event.Title)
	}
	return titles
}
