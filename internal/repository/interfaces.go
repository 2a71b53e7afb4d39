package repository

import (
	"canteen-service/internal/models"
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)

	UpdateProfile(ctx context.Context, id int64, allergies, preferences []string) error
	AddBalance(ctx context.Context, id int64, delta int64) (int64, error)
	SetMealsThisMonth(ctx context.Context, id int64, meals int) error
}

type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id int64) (*models.MenuItem, error)
	GetAll(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error)
	SetAvailable(ctx context.Context, id int64, available bool) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error

	GetByStudentID(ctx context.Context, studentID int64) ([]models.Order, error)
	GetByDate(ctx context.Context, date string) ([]models.Order, error)
	// ExistsPurchase reports a student-purchased order (issued_by unset) for
	// the item on date. Cook-issued orders are ignored.
	ExistsPurchase(ctx context.Context, studentID, menuItemID int64, date string) (bool, error)
	// CountByStudentMonth counts orders whose date starts with month ("YYYY-MM").
	CountByStudentMonth(ctx context.Context, studentID int64, month string) (int, error)
}

// InventoryRepository lists always come back in id order; ingredient lookup
// depends on it.
type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	GetAll(ctx context.Context) ([]models.InventoryItem, error)
	GetAllForUpdate(ctx context.Context) ([]models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	UpdateQuantity(ctx context.Context, id int64, quantity float64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByUserID(ctx context.Context, userID int64) ([]models.Payment, error)
	GetAll(ctx context.Context) ([]models.Payment, error)
}

type PurchaseRequestRepository interface {
	Create(ctx context.Context, req *models.PurchaseRequest) error
	GetByID(ctx context.Context, id int64) (*models.PurchaseRequest, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.PurchaseRequest, error)
	GetAll(ctx context.Context) ([]models.PurchaseRequest, error)
	Update(ctx context.Context, req *models.PurchaseRequest) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	GetAll(ctx context.Context) ([]models.Review, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]models.Review, error)
	GetByMenuItemID(ctx context.Context, menuItemID int64, approvedOnly bool) ([]models.Review, error)
	Approve(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// Repositories bundles one repository per collection. Inside Store.InTx every
// member is bound to the same transaction.
type Repositories struct {
	Users     UserRepository
	Menu      MenuRepository
	Orders    OrderRepository
	Inventory InventoryRepository
	Payments  PaymentRepository
	Requests  PurchaseRequestRepository
	Reviews   ReviewRepository
}

type TxFunc func(ctx context.Context, r Repositories) error

type Store interface {
	Repos() Repositories
	// InTx runs fn as one unit: either every write inside it is applied or
	// none is.
	InTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close() error
}
