package memory

import (
	"canteen-service/internal/models"
	"canteen-service/internal/repository"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

type userRepo struct{ src source }

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("%w: user cannot be nil", repository.ErrInvalidInput)
	}
	if u.Username == "" || !u.Role.Valid() {
		return fmt.Errorf("%w: username and valid role required", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == u.Username {
				return fmt.Errorf("%w: username '%s' already exists", repository.ErrDuplicate, u.Username)
			}
		}
		st.seq.users++
		u.ID = st.seq.users
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now()
		}
		st.users[u.ID] = copyUser(*u)
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	var out models.User
	err := r.src.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = copyUser(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	var out *models.User
	err := r.src.with(func(st *state) error {
		for _, u := range sorted(st.users, nil) {
			if u.Username == username {
				c := copyUser(u)
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *userRepo) GetAll(_ context.Context) ([]models.User, error) {
	var out []models.User
	err := r.src.with(func(st *state) error {
		out = sorted(st.users, nil)
		return nil
	})
	return out, err
}

func (r *userRepo) UpdateProfile(_ context.Context, id int64, allergies, preferences []string) error {
	return r.src.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		u.Allergies = slices.Clone(allergies)
		u.Preferences = slices.Clone(preferences)
		st.users[id] = u
		return nil
	})
}

func (r *userRepo) AddBalance(_ context.Context, id int64, delta int64) (int64, error) {
	var balance int64
	err := r.src.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		u.Balance += delta
		st.users[id] = u
		balance = u.Balance
		return nil
	})
	return balance, err
}

func (r *userRepo) SetMealsThisMonth(_ context.Context, id int64, meals int) error {
	return r.src.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		u.MealsThisMonth = meals
		st.users[id] = u
		return nil
	})
}

func copyUser(u models.User) models.User {
	u.Allergies = slices.Clone(u.Allergies)
	u.Preferences = slices.Clone(u.Preferences)
	return u
}

type menuRepo struct{ src source }

func (r *menuRepo) Create(_ context.Context, m *models.MenuItem) error {
	if m == nil {
		return fmt.Errorf("%w: menu item cannot be nil", repository.ErrInvalidInput)
	}
	if m.Name == "" || !m.Type.Valid() || m.Price < 0 {
		return fmt.Errorf("%w: name, meal type and non-negative price required", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		st.seq.menu++
		m.ID = st.seq.menu
		st.menu[m.ID] = copyMenuItem(*m)
		return nil
	})
}

func (r *menuRepo) GetByID(_ context.Context, id int64) (*models.MenuItem, error) {
	var out models.MenuItem
	err := r.src.with(func(st *state) error {
		m, ok := st.menu[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = copyMenuItem(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *menuRepo) GetAll(_ context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	var out []models.MenuItem
	err := r.src.with(func(st *state) error {
		out = sorted(st.menu, filter.Match)
		return nil
	})
	return out, err
}

func (r *menuRepo) SetAvailable(_ context.Context, id int64, available bool) error {
	return r.src.with(func(st *state) error {
		m, ok := st.menu[id]
		if !ok {
			return repository.ErrNotFound
		}
		m.Available = available
		st.menu[id] = m
		return nil
	})
}

func copyMenuItem(m models.MenuItem) models.MenuItem {
	m.Allergens = slices.Clone(m.Allergens)
	m.Contains = slices.Clone(m.Contains)
	return m
}

type orderRepo struct{ src source }

func (r *orderRepo) Create(_ context.Context, o *models.Order) error {
	if o == nil {
		return fmt.Errorf("%w: order cannot be nil", repository.ErrInvalidInput)
	}
	if o.StudentID <= 0 || o.Price < 0 {
		return fmt.Errorf("%w: student ID and non-negative price required", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		if o.Purchased() && o.MenuItemID != nil {
			for _, existing := range st.orders {
				if existing.Purchased() && existing.StudentID == o.StudentID &&
					existing.MenuItemID != nil && *existing.MenuItemID == *o.MenuItemID &&
					existing.Date == o.Date {
					return fmt.Errorf("%w: order for this item already exists today", repository.ErrDuplicate)
				}
			}
		}
		st.seq.orders++
		o.ID = st.seq.orders
		if o.CreatedAt.IsZero() {
			o.CreatedAt = time.Now()
		}
		st.orders[o.ID] = *o
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id int64) (*models.Order, error) {
	var out models.Order
	err := r.src.with(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) list(keep func(models.Order) bool) ([]models.Order, error) {
	var out []models.Order
	err := r.src.with(func(st *state) error {
		out = sorted(st.orders, keep)
		return nil
	})
	return out, err
}

func (r *orderRepo) GetAll(_ context.Context) ([]models.Order, error) {
	return r.list(nil)
}

func (r *orderRepo) GetByStudentID(_ context.Context, studentID int64) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.StudentID == studentID })
}

func (r *orderRepo) GetByDate(_ context.Context, date string) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.Date == date })
}

func (r *orderRepo) Update(_ context.Context, o *models.Order) error {
	if o == nil {
		return fmt.Errorf("%w: order cannot be nil", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		existing, ok := st.orders[o.ID]
		if !ok {
			return repository.ErrNotFound
		}
		existing.Status = o.Status
		existing.PreparedBy = o.PreparedBy
		existing.PreparedAt = o.PreparedAt
		existing.ServedBy = o.ServedBy
		existing.ServedAt = o.ServedAt
		existing.ReceivedAt = o.ReceivedAt
		st.orders[o.ID] = existing
		return nil
	})
}

func (r *orderRepo) ExistsPurchase(_ context.Context, studentID, menuItemID int64, date string) (bool, error) {
	orders, err := r.list(func(o models.Order) bool {
		return o.Purchased() && o.StudentID == studentID && o.Date == date &&
			o.MenuItemID != nil && *o.MenuItemID == menuItemID
	})
	return len(orders) > 0, err
}

func (r *orderRepo) CountByStudentMonth(_ context.Context, studentID int64, month string) (int, error) {
	orders, err := r.list(func(o models.Order) bool {
		return o.StudentID == studentID && strings.HasPrefix(o.Date, month)
	})
	return len(orders), err
}

type inventoryRepo struct{ src source }

func (r *inventoryRepo) Create(_ context.Context, i *models.InventoryItem) error {
	if i == nil {
		return fmt.Errorf("%w: inventory item cannot be nil", repository.ErrInvalidInput)
	}
	if i.Name == "" || i.Quantity < 0 {
		return fmt.Errorf("%w: name and non-negative quantity required", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		st.seq.inventory++
		i.ID = st.seq.inventory
		st.inventory[i.ID] = *i
		return nil
	})
}

func (r *inventoryRepo) GetByID(_ context.Context, id int64) (*models.InventoryItem, error) {
	var out models.InventoryItem
	err := r.src.with(func(st *state) error {
		i, ok := st.inventory[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *inventoryRepo) GetAll(_ context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	err := r.src.with(func(st *state) error {
		out = sorted(st.inventory, nil)
		return nil
	})
	return out, err
}

func (r *inventoryRepo) GetAllForUpdate(ctx context.Context) ([]models.InventoryItem, error) {
	return r.GetAll(ctx)
}

func (r *inventoryRepo) Update(_ context.Context, i *models.InventoryItem) error {
	if i == nil {
		return fmt.Errorf("%w: inventory item cannot be nil", repository.ErrInvalidInput)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		if _, ok := st.inventory[i.ID]; !ok {
			return repository.ErrNotFound
		}
		st.inventory[i.ID] = *i
		return nil
	})
}

func (r *inventoryRepo) UpdateQuantity(_ context.Context, id int64, quantity float64) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		i, ok := st.inventory[id]
		if !ok {
			return repository.ErrNotFound
		}
		i.Quantity = quantity
		st.inventory[id] = i
		return nil
	})
}

type paymentRepo struct{ src source }

func (r *paymentRepo) Create(_ context.Context, p *models.Payment) error {
	if p == nil {
		return fmt.Errorf("%w: payment cannot be nil", repository.ErrInvalidInput)
	}
	if p.UserID <= 0 {
		return fmt.Errorf("%w: user ID cannot be empty", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		st.seq.payments++
		p.ID = st.seq.payments
		if p.Date.IsZero() {
			p.Date = time.Now()
		}
		if p.Status == "" {
			p.Status = models.PaymentCompleted
		}
		st.payments[p.ID] = *p
		return nil
	})
}

func (r *paymentRepo) GetByUserID(_ context.Context, userID int64) ([]models.Payment, error) {
	var out []models.Payment
	err := r.src.with(func(st *state) error {
		out = sorted(st.payments, func(p models.Payment) bool { return p.UserID == userID })
		return nil
	})
	return out, err
}

func (r *paymentRepo) GetAll(_ context.Context) ([]models.Payment, error) {
	var out []models.Payment
	err := r.src.with(func(st *state) error {
		out = sorted(st.payments, nil)
		return nil
	})
	return out, err
}

type requestRepo struct{ src source }

func (r *requestRepo) Create(_ context.Context, p *models.PurchaseRequest) error {
	if p == nil {
		return fmt.Errorf("%w: purchase request cannot be nil", repository.ErrInvalidInput)
	}
	if p.Product == "" {
		return fmt.Errorf("%w: product required", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		st.seq.requests++
		p.ID = st.seq.requests
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		if p.Status == "" {
			p.Status = models.RequestPending
		}
		st.requests[p.ID] = *p
		return nil
	})
}

func (r *requestRepo) GetByID(_ context.Context, id int64) (*models.PurchaseRequest, error) {
	var out models.PurchaseRequest
	err := r.src.with(func(st *state) error {
		p, ok := st.requests[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *requestRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.PurchaseRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *requestRepo) GetAll(_ context.Context) ([]models.PurchaseRequest, error) {
	var out []models.PurchaseRequest
	err := r.src.with(func(st *state) error {
		out = sorted(st.requests, nil)
		return nil
	})
	return out, err
}

func (r *requestRepo) Update(_ context.Context, p *models.PurchaseRequest) error {
	if p == nil {
		return fmt.Errorf("%w: purchase request cannot be nil", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		existing, ok := st.requests[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		existing.Status = p.Status
		existing.ApprovedBy = p.ApprovedBy
		existing.ApprovedAt = p.ApprovedAt
		existing.RejectedBy = p.RejectedBy
		existing.RejectedAt = p.RejectedAt
		st.requests[p.ID] = existing
		return nil
	})
}

type reviewRepo struct{ src source }

func (r *reviewRepo) Create(_ context.Context, v *models.Review) error {
	if v == nil {
		return fmt.Errorf("%w: review cannot be nil", repository.ErrInvalidInput)
	}
	if v.Rating < 1 || v.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", repository.ErrInvalidInput)
	}
	return r.src.with(func(st *state) error {
		for _, existing := range st.reviews {
			if existing.StudentID == v.StudentID && existing.MenuItemID == v.MenuItemID {
				return fmt.Errorf("%w: review already exists", repository.ErrDuplicate)
			}
		}
		st.seq.reviews++
		v.ID = st.seq.reviews
		if v.Date.IsZero() {
			v.Date = time.Now()
		}
		st.reviews[v.ID] = *v
		return nil
	})
}

func (r *reviewRepo) GetByID(_ context.Context, id int64) (*models.Review, error) {
	var out models.Review
	err := r.src.with(func(st *state) error {
		v, ok := st.reviews[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *reviewRepo) list(keep func(models.Review) bool) ([]models.Review, error) {
	var out []models.Review
	err := r.src.with(func(st *state) error {
		out = sorted(st.reviews, keep)
		return nil
	})
	return out, err
}

func (r *reviewRepo) GetAll(_ context.Context) ([]models.Review, error) {
	return r.list(nil)
}

func (r *reviewRepo) GetByStudentID(_ context.Context, studentID int64) ([]models.Review, error) {
	return r.list(func(v models.Review) bool { return v.StudentID == studentID })
}

func (r *reviewRepo) GetByMenuItemID(_ context.Context, menuItemID int64, approvedOnly bool) ([]models.Review, error) {
	return r.list(func(v models.Review) bool {
		return v.MenuItemID == menuItemID && (!approvedOnly || v.Approved)
	})
}

func (r *reviewRepo) Approve(_ context.Context, id int64, at time.Time) error {
	return r.src.with(func(st *state) error {
		v, ok := st.reviews[id]
		if !ok {
			return repository.ErrNotFound
		}
		v.Approved = true
		v.ApprovedAt = &at
		st.reviews[id] = v
		return nil
	})
}

func (r *reviewRepo) Delete(_ context.Context, id int64) error {
	return r.src.with(func(st *state) error {
		if _, ok := st.reviews[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.reviews, id)
		return nil
	})
}
