package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/patial10/Construction-App/app/models"
	"github.com/patial10/Construction-App/pkg/database"
	"github.com/patial10/Construction-App/pkg/metrics"
)

// CustomerRepository handles document operations for Customer. It receives
// the database handle explicitly; there is no package-global client.
type CustomerRepository struct {
	col *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{col: db.Collection(database.CustomersCollection)}
}

// Insert persists a new customer document and writes the assigned ObjectID
// back into customer.ID.
func (r *CustomerRepository) Insert(ctx context.Context, customer *models.Customer) error {
	defer metrics.ObserveMongoOp("insert", time.Now())

	res, err := r.col.InsertOne(ctx, customer)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		customer.ID = oid
	}
	return nil
}

// All returns up to limit customers in storage order. There is no pagination
// cursor; documents beyond the cap are silently omitted.
func (r *CustomerRepository) All(ctx context.Context, limit int64) ([]models.Customer, error) {
	defer metrics.ObserveMongoOp("find", time.Now())

	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	customers := []models.Customer{}
	if err := cur.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByID looks up a customer by ObjectID. Returns mongo.ErrNoDocuments
// when absent; the service layer maps that to its not-found sentinel.
func (r *CustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Customer, error) {
	defer metrics.ObserveMongoOp("find_one", time.Now())

	var customer models.Customer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	return customer, err
}

// ReplaceOrders writes the whole orders array back onto the customer
// document. Every order mutation is a read-modify-write over the full array,
// not an atomic positional update; two concurrent writers race and the last
// write wins.
func (r *CustomerRepository) ReplaceOrders(ctx context.Context, id primitive.ObjectID, orders []models.Order) error {
	defer metrics.ObserveMongoOp("update", time.Now())

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"orders": orders}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
