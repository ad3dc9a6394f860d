// Package kernel assembles the HTTP handler: middleware stack, infrastructure
// endpoints, and the application routes.
package kernel

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/patial10/Construction-App/app/controllers"
	"github.com/patial10/Construction-App/app/repositories"
	"github.com/patial10/Construction-App/app/routes"
	"github.com/patial10/Construction-App/app/services"
	"github.com/patial10/Construction-App/pkg/metrics"
	"github.com/patial10/Construction-App/pkg/middleware"
	"github.com/patial10/Construction-App/pkg/reqid"
	"github.com/patial10/Construction-App/pkg/router"
)

// Handler wires repositories → services → controllers around the provided
// database handle and returns the fully assembled HTTP handler.
func Handler(db *mongo.Database) (http.Handler, error) {
	repo := repositories.NewCustomerRepository(db)
	service := services.NewCustomerService(repo)

	customerController := controllers.NewCustomerController(service)
	feedController := controllers.NewFeedController()

	graphqlHandler, err := controllers.NewGraphQLHandler(service)
	if err != nil {
		return nil, err
	}

	r := NewRouter()

	// Prometheus scrape endpoint.
	r.HandleFunc("/metrics", metrics.Handler())

	routes.RegisterAPI(r, customerController, feedController, graphqlHandler)

	return r.Handler(), nil
}

// NewRouter returns a router with the global middleware stack applied
// (outermost → innermost):
//
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. CORS               — local development origin allow-list
//  6. Rate limiter       — reject abusers early
func NewRouter() *router.Router {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))
	return r
}
