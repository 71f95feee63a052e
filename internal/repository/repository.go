package repository

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"order-view-service/internal/model"
)

var ErrNotFound = errors.New("order not found")

const collectionName = "order_snapshots"

// MongoOrderRepository stores order snapshots keyed by order id.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(collectionName)}
}

// EnsureIndexes creates the lookup indexes used by the queries below.
func (m *MongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
	})
	return pkgerrors.Wrap(err, "create order snapshot indexes")
}

// Save upserts the whole snapshot.
func (m *MongoOrderRepository) Save(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	filter := bson.M{"order_id": o.ID}
	update := bson.M{"$set": toDocument(o)}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return pkgerrors.Wrapf(err, "save order %s", o.ID)
}

func (m *MongoOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var doc orderDocument
	err := m.col.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "find order %s", orderID)
	}
	return doc.toModel(), nil
}

// AppendStatusTrack pushes a new track and moves the current status.
func (m *MongoOrderRepository) AppendStatusTrack(ctx context.Context, orderID string, track model.StatusTrack) error {
	filter := bson.M{"order_id": orderID}
	update := bson.M{
		"$set": bson.M{
			"status":     track.Status.String(),
			"updated_at": time.Now().UTC(),
		},
		"$push": bson.M{
			"status_tracks": toTrackDocument(track),
		},
	}

	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return pkgerrors.Wrapf(err, "append status track to order %s", orderID)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePayment sets the payment status and, when given, the paid amount.
func (m *MongoOrderRepository) UpdatePayment(ctx context.Context, orderID string, status model.PaymentStatus, paid *decimal.Decimal) error {
	set := bson.M{
		"payment_status": string(status),
		"updated_at":     time.Now().UTC(),
	}
	if paid != nil {
		set["paid_amount"] = toDecimal128(*paid)
	}

	res, err := m.col.UpdateOne(ctx, bson.M{"order_id": orderID}, bson.M{"$set": set})
	if err != nil {
		return pkgerrors.Wrapf(err, "update payment of order %s", orderID)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoOrderRepository) FindAll(ctx context.Context) ([]*model.Order, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoOrderRepository) FindByStatus(ctx context.Context, status model.Status) ([]*model.Order, error) {
	return m.find(ctx, bson.M{"status": status.String()})
}

func (m *MongoOrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*model.Order, error) {
	return m.find(ctx, bson.M{"customer_id": customerID})
}

func (m *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]*model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find orders")
	}
	defer cur.Close(ctx)

	out := []*model.Order{}
	for cur.Next(ctx) {
		var doc orderDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, pkgerrors.Wrap(err, "decode order")
		}
		out = append(out, doc.toModel())
	}
	return out, pkgerrors.Wrap(cur.Err(), "iterate orders")
}
