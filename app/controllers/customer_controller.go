package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/patial10/Construction-App/app/models"
	"github.com/patial10/Construction-App/app/services"
	"github.com/patial10/Construction-App/pkg/ctx"
	"github.com/patial10/Construction-App/pkg/logger"
)

// Response messages on the wire contract.
const (
	msgOrderBooked      = "Order booked successfully"
	msgOrderUpdated     = "Order updated successfully"
	msgOrderDeleted     = "Order deleted successfully"
	msgCustomerNotFound = "Customer not found"
	msgOrderNotFound    = "Order not found"
)

type CustomerController struct {
	service *services.CustomerService
}

func NewCustomerController(service *services.CustomerService) *CustomerController {
	return &CustomerController{service: service}
}

// Store handles POST /customers/ — create a customer, orders optional.
func (ct *CustomerController) Store(c *ctx.Context) {
	var input models.Customer
	if !c.BindJSON(&input) {
		return
	}

	created, err := ct.service.Create(c.Context(), input)
	if err != nil {
		ct.fail(c, err)
		return
	}

	logger.WithCtx(c.Context()).Info("customer created", "customer_id", created.ID.Hex())
	c.JSON(http.StatusOK, created)
}

// Index handles GET /customers/ — list up to 100 customers.
func (ct *CustomerController) Index(c *ctx.Context) {
	customers, err := ct.service.List(c.Context())
	if err != nil {
		ct.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Show handles GET /customers/{id}.
func (ct *CustomerController) Show(c *ctx.Context) {
	customer, err := ct.service.Get(c.Context(), c.Param("id"))
	if err != nil {
		ct.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// BookOrder handles POST /customers/{id}/order — append an order.
func (ct *CustomerController) BookOrder(c *ctx.Context) {
	var order models.Order
	if !c.BindJSON(&order) {
		return
	}

	booked, err := ct.service.BookOrder(c.Context(), c.Param("id"), order)
	if err != nil {
		ct.fail(c, err)
		return
	}

	logger.WithCtx(c.Context()).Info("order booked",
		"customer_id", c.Param("id"), "category", booked.Category)
	c.JSON(http.StatusOK, map[string]any{
		"message": msgOrderBooked,
		"order":   booked,
	})
}

// EditOrder handles PUT /customers/{id}/order/{index} — wholesale replace.
func (ct *CustomerController) EditOrder(c *ctx.Context) {
	index, ok := ct.orderIndex(c)
	if !ok {
		return
	}

	var order models.Order
	if !c.BindJSON(&order) {
		return
	}

	updated, err := ct.service.EditOrder(c.Context(), c.Param("id"), index, order)
	if err != nil {
		ct.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]any{
		"message": msgOrderUpdated,
		"order":   updated,
	})
}

// DeleteOrder handles DELETE /customers/{id}/order/{index}.
func (ct *CustomerController) DeleteOrder(c *ctx.Context) {
	index, ok := ct.orderIndex(c)
	if !ok {
		return
	}

	if err := ct.service.DeleteOrder(c.Context(), c.Param("id"), index); err != nil {
		ct.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]any{"message": msgOrderDeleted})
}

// RepriceOrder handles PATCH /customers/{id}/order/{index}?new_price=&new_quantity=.
// Both query parameters are required.
func (ct *CustomerController) RepriceOrder(c *ctx.Context) {
	index, ok := ct.orderIndex(c)
	if !ok {
		return
	}

	errs := map[string]string{}

	price, err := strconv.ParseFloat(c.Query("new_price"), 64)
	if err != nil {
		errs["new_price"] = "The new_price parameter is required and must be a number"
	}
	quantity, err := strconv.Atoi(c.Query("new_quantity"))
	if err != nil {
		errs["new_quantity"] = "The new_quantity parameter is required and must be an integer"
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return
	}

	updated, err := ct.service.RepriceOrder(c.Context(), c.Param("id"), index, price, quantity)
	if err != nil {
		ct.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]any{
		"message": msgOrderUpdated,
		"order":   updated,
	})
}

// orderIndex parses the {index} path parameter. A non-integer index is a
// validation failure, not a routing miss.
func (ct *CustomerController) orderIndex(c *ctx.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.ValidationError(map[string]string{"index": "The order index must be an integer"})
		return 0, false
	}
	return index, true
}

// fail maps service errors onto the HTTP contract.
func (ct *CustomerController) fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCustomerID):
		c.BadRequest("Invalid customer ID")
	case errors.Is(err, services.ErrCustomerNotFound):
		c.NotFound(msgCustomerNotFound)
	case errors.Is(err, services.ErrOrderNotFound):
		c.NotFound(msgOrderNotFound)
	default:
		// Storage unavailability and anything unexpected: surface immediately,
		// no retry, no partial-failure handling.
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
