// Package database owns the process-wide MongoDB client.
//
// The client is created once at startup and passed down explicitly
// (repositories receive a *mongo.Database, not a package global), and is
// disconnected during graceful shutdown.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/patial10/Construction-App/config"
)

// Fixed storage layout: one database, one customer collection. The only
// runtime knob is the connection string (MONGO_URI).
const (
	Name                = "webapp_db"
	CustomersCollection = "customers"
	LogsCollection      = "service_logs"
)

// Mongo bundles the client and the application database handle.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB using the configured URI and verifies the connection
// with a ping.
func Connect(ctx context.Context) (*Mongo, error) {
	clientOpts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &Mongo{
		client: client,
		db:     client.Database(Name),
	}, nil
}

// Database returns the application database handle.
func (m *Mongo) Database() *mongo.Database { return m.db }

// Customers returns the customer collection handle.
func (m *Mongo) Customers() *mongo.Collection {
	return m.db.Collection(CustomersCollection)
}

// Logs returns the collection the async slog sink writes to.
func (m *Mongo) Logs() *mongo.Collection {
	return m.db.Collection(LogsCollection)
}

// Close disconnects the client. Part of graceful shutdown.
func (m *Mongo) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("database: disconnect: %w", err)
	}
	return nil
}
