package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Products *mongo.Collection
	Users    *mongo.Collection
	Orders   *mongo.Collection
	Carts    *mongo.Collection
}

// OpenDB connects, pings, and wires up the collection handles.
func OpenDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &MongoDB{
		Client:   client,
		Products: db.Collection("products"),
		Users:    db.Collection("users"),
		Orders:   db.Collection("orders"),
		Carts:    db.Collection("carts"),
	}, nil
}

// EnsureIndexes creates the indexes the write paths rely on: unique user
// emails, one cart line per (user, product), and the order filters used by
// review eligibility and reporting.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = m.Carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "product", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = m.Orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "orderStatus", Value: 1}}},
		{Keys: bson.D{{Key: "paidAt", Value: 1}}},
	})
	return err
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
