// Package seeders inserts demo data for local development.
package seeders

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/patial10/Construction-App/app/models"
	"github.com/patial10/Construction-App/app/repositories"
)

// demoCustomers is a small set of building-materials buyers.
var demoCustomers = []models.Customer{
	{
		Name:    "Alice Mason",
		Email:   "alice@example.com",
		Phone:   "555-0101",
		Address: "1 Main St",
		Orders: []models.Order{
			{Category: "bricks", Quantity: 100, Price: 2.5},
			{Category: "sand", Quantity: 40, Price: 12.0},
		},
	},
	{
		Name:    "Bob Carpenter",
		Email:   "bob@example.com",
		Phone:   "555-0102",
		Address: "2 Oak Ave",
		Orders: []models.Order{
			{Category: "concrete", Quantity: 20, Price: 85.0},
		},
	},
	{
		Name:    "Carla Stone",
		Email:   "carla@example.com",
		Phone:   "555-0103",
		Address: "3 Pine Rd",
		Orders:  []models.Order{},
	},
}

// Run inserts the demo customers. It is a no-op when the collection already
// has documents, so seeding is safe to repeat.
func Run(ctx context.Context, db *mongo.Database) error {
	repo := repositories.NewCustomerRepository(db)

	count, err := db.Collection("customers").CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("seed: count: %w", err)
	}
	if count > 0 {
		fmt.Printf("customers collection already has %d documents, skipping seed\n", count)
		return nil
	}

	for i := range demoCustomers {
		customer := demoCustomers[i]
		if err := repo.Insert(ctx, &customer); err != nil {
			return fmt.Errorf("seed: insert %q: %w", customer.Name, err)
		}
		fmt.Printf("seeded customer %s (%s)\n", customer.Name, customer.ID.Hex())
	}
	return nil
}
