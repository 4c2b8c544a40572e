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

func (m *MongoDB) InsertProduct(ctx context.Context, p *Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
	p.CreatedAt = time.Now()
	_, err := m.Products.InsertOne(ctx, p)
	return err
}

func (m *MongoDB) GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	err := m.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductFilter narrows GetProducts; zero values mean no constraint.
type ProductFilter struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}

func (m *MongoDB) GetProducts(ctx context.Context, f ProductFilter) ([]*Product, int64, error) {
	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}

	total, err := m.Products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.PerPage > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.PerPage)).SetLimit(int64(f.PerPage))
	}

	cur, err := m.Products.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var products []*Product
	if err = cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (m *MongoDB) UpdateProduct(ctx context.Context, p *Product) error {
	res, err := m.Products.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{
		"$set": bson.M{
			"name":        p.Name,
			"price":       p.Price,
			"description": p.Description,
			"category":    p.Category,
			"stock":       p.Stock,
			"seller":      p.Seller,
			"images":      p.Images,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *MongoDB) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.Products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock applies an unconditional $inc. Stock may go negative;
// delivery decrements are applied even when inventory lagged behind sales.
func (m *MongoDB) DecrementStock(ctx context.Context, productID primitive.ObjectID, quantity int) error {
	res, err := m.Products.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$inc": bson.M{"stock": -quantity}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// PushReview appends a review only if the user has none on this product yet.
// The existence check and the append are a single conditional update, so two
// concurrent submissions cannot both land.
func (m *MongoDB) PushReview(ctx context.Context, productID primitive.ObjectID, r Review) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	res, err := m.Products.UpdateOne(ctx,
		bson.M{"_id": productID, "reviews.user": bson.M{"$ne": r.User}},
		bson.M{"$push": bson.M{"reviews": r}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := m.GetProduct(ctx, productID); err != nil {
			return err
		}
		return ErrDuplicateReview
	}
	return nil
}

// SetReview replaces the rating and comment of the user's existing review.
func (m *MongoDB) SetReview(ctx context.Context, productID, userID primitive.ObjectID, rating int, comment string, at time.Time) error {
	res, err := m.Products.UpdateOne(ctx,
		bson.M{"_id": productID, "reviews.user": userID},
		bson.M{"$set": bson.M{
			"reviews.$.rating":    rating,
			"reviews.$.comment":   comment,
			"reviews.$.updatedAt": at,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := m.GetProduct(ctx, productID); err != nil {
			return err
		}
		return ErrReviewNotFound
	}
	return nil
}

func (m *MongoDB) PullReview(ctx context.Context, productID, reviewID primitive.ObjectID) error {
	res, err := m.Products.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$pull": bson.M{"reviews": bson.M{"_id": reviewID}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// SetRatings persists the recomputed aggregate after a review mutation.
func (m *MongoDB) SetRatings(ctx context.Context, productID primitive.ObjectID, ratings float64, numOfReviews int) error {
	res, err := m.Products.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"ratings": ratings, "numOfReviews": numOfReviews}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
