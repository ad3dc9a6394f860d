package routes

import (
	"net/http"

	"github.com/patial10/Construction-App/app/controllers"
	"github.com/patial10/Construction-App/pkg/ctx"
	"github.com/patial10/Construction-App/pkg/router"
)

// RegisterAPI mounts the customer/order REST surface plus the supplemental
// live feeds and the read-only GraphQL endpoint.
func RegisterAPI(
	r *router.Router,
	customers *controllers.CustomerController,
	feed *controllers.FeedController,
	graphqlHandler http.HandlerFunc,
) {
	api := r.Group("/customers")
	api.Post("/", "customers.store", ctx.Wrap(customers.Store))
	api.Get("/", "customers.index", ctx.Wrap(customers.Index))
	api.Get("/{id}", "customers.show", ctx.Wrap(customers.Show))
	api.Post("/{id}/order", "orders.book", ctx.Wrap(customers.BookOrder))
	api.Put("/{id}/order/{index}", "orders.update", ctx.Wrap(customers.EditOrder))
	api.Delete("/{id}/order/{index}", "orders.destroy", ctx.Wrap(customers.DeleteOrder))
	api.Patch("/{id}/order/{index}", "orders.reprice", ctx.Wrap(customers.RepriceOrder))

	r.Get("/events/orders", "orders.events", ctx.Wrap(feed.Stream))
	r.Get("/ws/orders", "orders.ws", ctx.Wrap(feed.Socket))

	if graphqlHandler != nil {
		r.Post("/graphql", "graphql", graphqlHandler)
	}
}
