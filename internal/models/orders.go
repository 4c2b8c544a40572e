package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertOrder(ctx context.Context, o *Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	o.CreatedAt = time.Now()
	_, err := m.Orders.InsertOne(ctx, o)
	return err
}

func (m *MongoDB) GetOrder(ctx context.Context, id primitive.ObjectID) (*Order, error) {
	var o Order
	err := m.Orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (m *MongoDB) GetOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]*Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.Orders.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orders []*Order
	err = cur.All(ctx, &orders)
	return orders, err
}

func (m *MongoDB) GetAllOrders(ctx context.Context) ([]*Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.Orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var orders []*Order
	err = cur.All(ctx, &orders)
	return orders, err
}

func (m *MongoDB) SetOrderStatus(ctx context.Context, id primitive.ObjectID, status OrderStatus) error {
	res, err := m.Orders.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"orderStatus": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkDelivered sets the terminal status and the delivery timestamp in one write.
func (m *MongoDB) MarkDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := m.Orders.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"orderStatus": StatusDelivered, "deliveredAt": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (m *MongoDB) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.Orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// HasDeliveredOrderWithProduct backs the review eligibility check: at least
// one delivered order by this user whose item snapshot references the product.
func (m *MongoDB) HasDeliveredOrderWithProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	n, err := m.Orders.CountDocuments(ctx, bson.M{
		"user":               userID,
		"orderStatus":        StatusDelivered,
		"orderItems.product": productID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
