package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) GetCart(ctx context.Context, userID primitive.ObjectID) ([]*CartItem, error) {
	cur, err := m.Carts.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var items []*CartItem
	err = cur.All(ctx, &items)
	return items, err
}

// UpsertCartItem sets the quantity for one product line; the (user, product)
// unique index keeps concurrent adds from splitting into duplicate lines.
func (m *MongoDB) UpsertCartItem(ctx context.Context, item CartItem) error {
	_, err := m.Carts.UpdateOne(ctx,
		bson.M{"user": item.User, "product": item.Product},
		bson.M{"$set": bson.M{
			"name":     item.Name,
			"price":    item.Price,
			"quantity": item.Quantity,
			"image":    item.Image,
		}},
		options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) RemoveCartItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	_, err := m.Carts.DeleteOne(ctx, bson.M{"user": userID, "product": productID})
	return err
}

func (m *MongoDB) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := m.Carts.DeleteMany(ctx, bson.M{"user": userID})
	return err
}
