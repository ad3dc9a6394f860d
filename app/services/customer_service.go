package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/patial10/Construction-App/app/models"
	"github.com/patial10/Construction-App/pkg/cache"
	"github.com/patial10/Construction-App/pkg/event"
	"github.com/patial10/Construction-App/pkg/metrics"
)

// Sentinel errors matched with errors.Is at the controller boundary.
var (
	ErrInvalidCustomerID = errors.New("invalid customer id")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrOrderNotFound     = errors.New("order not found")
)

// Event names fired on successful mutations.
const (
	EventCustomerCreated = "customer.created"
	EventOrderBooked     = "order.booked"
	EventOrderUpdated    = "order.updated"
	EventOrderDeleted    = "order.deleted"
	EventOrderRepriced   = "order.repriced"
)

// OrderEvent is the payload carried by order mutation events.
type OrderEvent struct {
	CustomerID string       `json:"customer_id"`
	Index      int          `json:"index"`
	Order      models.Order `json:"order"`
}

// listLimit caps the list endpoint; records beyond it are silently omitted.
const listLimit = 100

const (
	cacheTTL     = 30 * time.Second
	listCacheKey = "customers:all"
)

func customerCacheKey(id string) string {
	return "customer:" + id
}

// CustomerStore is the storage surface the service needs. Implemented by
// repositories.CustomerRepository; tests substitute an in-memory fake.
type CustomerStore interface {
	Insert(ctx context.Context, customer *models.Customer) error
	All(ctx context.Context, limit int64) ([]models.Customer, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Customer, error)
	ReplaceOrders(ctx context.Context, id primitive.ObjectID, orders []models.Order) error
}

// CustomerService implements the customer/order operations. Order mutations
// are read-modify-write over the whole embedded array: the document is read,
// the in-memory slice mutated, and the full array written back. Two
// concurrent mutations of the same customer race; the last write wins.
type CustomerService struct {
	store CustomerStore
}

func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{store: store}
}

// Create inserts a new customer. A missing orders array defaults to empty;
// a customer always has an orders sequence, never null.
func (s *CustomerService) Create(ctx context.Context, in models.Customer) (models.Customer, error) {
	in.ID = primitive.NilObjectID // ids are server-assigned, never client-supplied
	in.NormalizeOrders()

	if err := s.store.Insert(ctx, &in); err != nil {
		return models.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	cache.Del(listCacheKey)
	metrics.CustomersCreated.Inc()
	event.Fire(EventCustomerCreated, in)
	return in, nil
}

// List returns up to 100 customers in storage order.
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	var cached []models.Customer
	if cache.Get(listCacheKey, &cached) {
		return cached, nil
	}

	customers, err := s.store.All(ctx, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	for i := range customers {
		customers[i].NormalizeOrders()
	}

	_ = cache.Set(listCacheKey, customers, cacheTTL)
	return customers, nil
}

// Get fetches one customer by its hex identifier. A malformed identifier
// yields ErrInvalidCustomerID before any lookup; a well-formed but absent
// one yields ErrCustomerNotFound.
func (s *CustomerService) Get(ctx context.Context, id string) (models.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Customer{}, ErrInvalidCustomerID
	}

	var cached models.Customer
	if cache.Get(customerCacheKey(id), &cached) {
		return cached, nil
	}

	customer, err := s.store.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Customer{}, ErrCustomerNotFound
		}
		return models.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	customer.NormalizeOrders()

	_ = cache.Set(customerCacheKey(id), customer, cacheTTL)
	return customer, nil
}

// BookOrder appends order to the end of the customer's order sequence and
// persists the whole array back.
func (s *CustomerService) BookOrder(ctx context.Context, id string, order models.Order) (models.Order, error) {
	customer, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	orders := append(customer.Orders, order)
	if err := s.writeOrders(ctx, customer.ID, id, orders); err != nil {
		return models.Order{}, err
	}

	metrics.OrdersBooked.Inc()
	event.Fire(EventOrderBooked, OrderEvent{CustomerID: id, Index: len(orders) - 1, Order: order})
	return order, nil
}

// EditOrder replaces the order at index wholesale.
func (s *CustomerService) EditOrder(ctx context.Context, id string, index int, order models.Order) (models.Order, error) {
	customer, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if index < 0 || index >= len(customer.Orders) {
		return models.Order{}, ErrOrderNotFound
	}

	customer.Orders[index] = order
	if err := s.writeOrders(ctx, customer.ID, id, customer.Orders); err != nil {
		return models.Order{}, err
	}

	event.Fire(EventOrderUpdated, OrderEvent{CustomerID: id, Index: index, Order: order})
	return order, nil
}

// DeleteOrder removes the order at index, shifting later orders left by one.
func (s *CustomerService) DeleteOrder(ctx context.Context, id string, index int) error {
	customer, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(customer.Orders) {
		return ErrOrderNotFound
	}

	removed := customer.Orders[index]
	orders := append(customer.Orders[:index], customer.Orders[index+1:]...)
	if err := s.writeOrders(ctx, customer.ID, id, orders); err != nil {
		return err
	}

	event.Fire(EventOrderDeleted, OrderEvent{CustomerID: id, Index: index, Order: removed})
	return nil
}

// RepriceOrder mutates only the quantity and price of the order at index;
// the category is untouched.
func (s *CustomerService) RepriceOrder(ctx context.Context, id string, index int, price float64, quantity int) (models.Order, error) {
	customer, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if index < 0 || index >= len(customer.Orders) {
		return models.Order{}, ErrOrderNotFound
	}

	customer.Orders[index].Quantity = quantity
	customer.Orders[index].Price = price
	if err := s.writeOrders(ctx, customer.ID, id, customer.Orders); err != nil {
		return models.Order{}, err
	}

	updated := customer.Orders[index]
	event.Fire(EventOrderRepriced, OrderEvent{CustomerID: id, Index: index, Order: updated})
	return updated, nil
}

// loadForUpdate resolves the identifier and reads the current document
// straight from the store; mutation paths never read through the cache.
// Both malformed and absent identifiers collapse to ErrCustomerNotFound here:
// the caller addressed a customer that is not there.
func (s *CustomerService) loadForUpdate(ctx context.Context, id string) (models.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Customer{}, ErrCustomerNotFound
	}

	customer, err := s.store.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Customer{}, ErrCustomerNotFound
		}
		return models.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	customer.NormalizeOrders()
	return customer, nil
}

func (s *CustomerService) writeOrders(ctx context.Context, oid primitive.ObjectID, id string, orders []models.Order) error {
	if err := s.store.ReplaceOrders(ctx, oid, orders); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("update orders: %w", err)
	}

	cache.Del(listCacheKey, customerCacheKey(id))
	return nil
}
