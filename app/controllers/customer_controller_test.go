package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/patial10/Construction-App/app/controllers"
	"github.com/patial10/Construction-App/app/models"
	"github.com/patial10/Construction-App/app/routes"
	"github.com/patial10/Construction-App/app/services"
	"github.com/patial10/Construction-App/pkg/router"
)

// fakeStore is an in-memory services.CustomerStore.
type fakeStore struct {
	mu        sync.Mutex
	customers map[primitive.ObjectID]models.Customer
	inserted  []primitive.ObjectID
}

func newFakeStore() *fakeStore {
	return &fakeStore{customers: map[primitive.ObjectID]models.Customer{}}
}

func (f *fakeStore) Insert(_ context.Context, customer *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer.ID = primitive.NewObjectID()
	f.customers[customer.ID] = *customer
	f.inserted = append(f.inserted, customer.ID)
	return nil
}

func (f *fakeStore) All(_ context.Context, limit int64) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Customer{}
	for _, id := range f.inserted {
		if int64(len(out)) >= limit {
			break
		}
		out = append(out, f.customers[id])
	}
	return out, nil
}

func (f *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer, ok := f.customers[id]
	if !ok {
		return models.Customer{}, mongo.ErrNoDocuments
	}
	return customer, nil
}

func (f *fakeStore) ReplaceOrders(_ context.Context, id primitive.ObjectID, orders []models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer, ok := f.customers[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	customer.Orders = append([]models.Order(nil), orders...)
	f.customers[id] = customer
	return nil
}

func newTestHandler(t *testing.T) (http.Handler, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	service := services.NewCustomerService(store)

	r := router.New()
	routes.RegisterAPI(r,
		controllers.NewCustomerController(service),
		controllers.NewFeedController(),
		nil,
	)
	return r.Handler(), store
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest),
		"body: %s", rec.Body.String())
}

func createCustomer(t *testing.T, handler http.Handler) models.Customer {
	t.Helper()
	rec := do(t, handler, http.MethodPost, "/customers/",
		`{"name":"Alice","email":"a@x.com","phone":"555","address":"1 Main St"}`)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var created models.Customer
	decode(t, rec, &created)
	return created
}

func TestCreateCustomer(t *testing.T) {
	handler, _ := newTestHandler(t)

	created := createCustomer(t, handler)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Alice", created.Name)
	require.NotNil(t, created.Orders, "orders must be [] on the wire, not null")
	assert.Empty(t, created.Orders)
}

func TestCreateCustomerValidation(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := do(t, handler, http.MethodPost, "/customers/",
		`{"name":"Alice","phone":"555","address":"1 Main St"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &body)
	assert.Contains(t, body.Errors, "email")
}

func TestCreateCustomerMalformedJSON(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := do(t, handler, http.MethodPost, "/customers/", `{"name":`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListCustomers(t *testing.T) {
	handler, _ := newTestHandler(t)
	createCustomer(t, handler)
	createCustomer(t, handler)

	rec := do(t, handler, http.MethodGet, "/customers/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var customers []models.Customer
	decode(t, rec, &customers)
	assert.Len(t, customers, 2)
}

func TestShowCustomer(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)

	rec := do(t, handler, http.MethodGet, "/customers/"+created.ID.Hex(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Customer
	decode(t, rec, &got)
	assert.Equal(t, created.ID, got.ID)
}

func TestShowCustomerBadIDVsAbsent(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := do(t, handler, http.MethodGet, "/customers/not-hex", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed id fails before lookup")

	rec = do(t, handler, http.MethodGet, "/customers/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "well-formed but absent id is 404")
}

func TestBookOrder(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)

	rec := do(t, handler, http.MethodPost, "/customers/"+created.ID.Hex()+"/order",
		`{"category":"bricks","quantity":100,"price":2.5}`)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var body struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "Order booked successfully", body.Message)
	assert.Equal(t, models.Order{Category: "bricks", Quantity: 100, Price: 2.5}, body.Order)
}

func TestBookOrderUnknownCustomer(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := do(t, handler, http.MethodPost,
		"/customers/"+primitive.NewObjectID().Hex()+"/order",
		`{"category":"bricks","quantity":100,"price":2.5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "Customer not found", body.Message)
}

func TestEditOrder(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)
	do(t, handler, http.MethodPost, "/customers/"+created.ID.Hex()+"/order",
		`{"category":"sand","quantity":10,"price":5}`)

	rec := do(t, handler, http.MethodPut, "/customers/"+created.ID.Hex()+"/order/0",
		`{"category":"concrete","quantity":2,"price":90}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "Order updated successfully", body.Message)
	assert.Equal(t, "concrete", body.Order.Category)
}

func TestEditOrderIndexOutOfRange(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)

	rec := do(t, handler, http.MethodPut, "/customers/"+created.ID.Hex()+"/order/0",
		`{"category":"concrete","quantity":2,"price":90}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "Order not found", body.Message)
}

func TestEditOrderNegativeIndex(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)
	do(t, handler, http.MethodPost, "/customers/"+created.ID.Hex()+"/order",
		`{"category":"sand","quantity":10,"price":5}`)

	rec := do(t, handler, http.MethodPut, "/customers/"+created.ID.Hex()+"/order/-1",
		`{"category":"concrete","quantity":2,"price":90}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditOrderNonIntegerIndex(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)

	rec := do(t, handler, http.MethodPut, "/customers/"+created.ID.Hex()+"/order/first",
		`{"category":"concrete","quantity":2,"price":90}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteOrder(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)
	do(t, handler, http.MethodPost, "/customers/"+created.ID.Hex()+"/order",
		`{"category":"sand","quantity":10,"price":5}`)
	do(t, handler, http.MethodPost, "/customers/"+created.ID.Hex()+"/order",
		`{"category":"bricks","quantity":100,"price":2.5}`)

	rec := do(t, handler, http.MethodDelete, "/customers/"+created.ID.Hex()+"/order/0", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "Order deleted successfully", body.Message)

	rec = do(t, handler, http.MethodGet, "/customers/"+created.ID.Hex(), "")
	var got models.Customer
	decode(t, rec, &got)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, "bricks", got.Orders[0].Category, "later orders shift left")
}

func TestRepriceOrder(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)
	do(t, handler, http.MethodPost, "/customers/"+created.ID.Hex()+"/order",
		`{"category":"bricks","quantity":100,"price":2.5}`)

	path := fmt.Sprintf("/customers/%s/order/0?new_price=3.0&new_quantity=150", created.ID.Hex())
	rec := do(t, handler, http.MethodPatch, path, "")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var body struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "Order updated successfully", body.Message)
	assert.Equal(t, models.Order{Category: "bricks", Quantity: 150, Price: 3.0}, body.Order)
}

func TestRepriceOrderRequiresParams(t *testing.T) {
	handler, _ := newTestHandler(t)
	created := createCustomer(t, handler)
	do(t, handler, http.MethodPost, "/customers/"+created.ID.Hex()+"/order",
		`{"category":"bricks","quantity":100,"price":2.5}`)

	rec := do(t, handler, http.MethodPatch,
		"/customers/"+created.ID.Hex()+"/order/0?new_price=3.0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &body)
	assert.Contains(t, body.Errors, "new_quantity")
}
