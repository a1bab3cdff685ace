package customers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

type memoryCustomerRepo struct {
	byID   map[int64]Customer
	nextID int64
}

func newMemoryCustomerRepo() *memoryCustomerRepo {
	return &memoryCustomerRepo{byID: make(map[int64]Customer)}
}

func (r *memoryCustomerRepo) List(ctx context.Context, clientID int64) ([]Customer, error) {
	out := []Customer{}
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryCustomerRepo) Get(ctx context.Context, clientID, id int64) (Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return Customer{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryCustomerRepo) Create(ctx context.Context, clientID int64, customer Customer) (Customer, error) {
	r.nextID++
	customer.ID = r.nextID
	customer.CreatedAt = time.Now()
	r.byID[customer.ID] = customer
	return customer, nil
}

func (r *memoryCustomerRepo) Update(ctx context.Context, clientID int64, customer Customer) (Customer, error) {
	if _, ok := r.byID[customer.ID]; !ok {
		return Customer{}, shared.ErrNotFound
	}
	r.byID[customer.ID] = customer
	return customer, nil
}

func (r *memoryCustomerRepo) Delete(ctx context.Context, clientID, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestCreateCustomerTrimsName(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	c, err := svc.Create(context.Background(), 7, Customer{Name: "  Ravi Stores  "})
	require.NoError(t, err)
	require.Equal(t, "Ravi Stores", c.Name)
}

func TestCreateCustomerRequiresName(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	_, err := svc.Create(context.Background(), 7, Customer{Name: " "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateCustomerRejectsNegativeCreditLimit(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	_, err := svc.Create(context.Background(), 7, Customer{Name: "Ravi", CreditLimit: -100})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateUnknownCustomer(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())

	_, err := svc.Update(context.Background(), 7, Customer{ID: 99, Name: "Ravi"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteCustomer(t *testing.T) {
	repo := newMemoryCustomerRepo()
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), 7, Customer{Name: "Ravi"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 7, c.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), 7, c.ID), shared.ErrNotFound)
}

var _ Repository = (*memoryCustomerRepo)(nil)
