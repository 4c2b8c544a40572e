// Package reports runs the read-only sales aggregations for the admin
// dashboard.
package reports

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// monthNames is the verified calendar mapping; index 0 is unused so month
// numbers 1 through 12 address it directly.
var monthNames = [13]string{
	"",
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the calendar name for month 1..12, or "" out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}

type CustomerSales struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Total  float64 `json:"total"`
	Orders int     `json:"orders"`
}

type MonthlySales struct {
	Year  int     `json:"year"`
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// MonthRow is one raw (year, month) revenue bucket from the store.
type MonthRow struct {
	Year  int
	Month int
	Total float64
}

type Service struct {
	Orders *mongo.Collection
}

func NewService(orders *mongo.Collection) *Service {
	return &Service{Orders: orders}
}

func (s *Service) TotalOrders(ctx context.Context) (int64, error) {
	return s.Orders.CountDocuments(ctx, bson.M{})
}

func (s *Service) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}},
	}
	cur, err := s.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	var results []struct {
		Total float64 `bson:"total"`
	}
	if err = cur.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// PerCustomer groups revenue by buyer, joined to the users collection,
// highest spenders first.
func (s *Service) PerCustomer(ctx context.Context) ([]CustomerSales, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":    "$user",
			"total":  bson.M{"$sum": "$totalPrice"},
			"orders": bson.M{"$sum": 1},
		}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "customer",
		}},
		{"$unwind": bson.M{"path": "$customer", "preserveNullAndEmptyArrays": true}},
		{"$sort": bson.M{"total": -1}},
	}
	cur, err := s.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID       primitive.ObjectID `bson:"_id"`
		Total    float64            `bson:"total"`
		Orders   int                `bson:"orders"`
		Customer struct {
			Name  string `bson:"name"`
			Email string `bson:"email"`
		} `bson:"customer"`
	}
	if err = cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]CustomerSales, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerSales{
			UserID: r.ID.Hex(),
			Name:   r.Customer.Name,
			Email:  r.Customer.Email,
			Total:  r.Total,
			Orders: r.Orders,
		})
	}
	return out, nil
}

// PerMonth groups revenue by the calendar month of paidAt.
func (s *Service) PerMonth(ctx context.Context) ([]MonthlySales, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$paidAt"},
				"month": bson.M{"$month": "$paidAt"},
			},
			"total": bson.M{"$sum": "$totalPrice"},
		}},
	}
	cur, err := s.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var raw []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err = cur.All(ctx, &raw); err != nil {
		return nil, err
	}

	rows := make([]MonthRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, MonthRow{Year: r.ID.Year, Month: r.ID.Month, Total: r.Total})
	}
	return BuildMonthly(rows), nil
}

// BuildMonthly merges raw buckets (summing duplicates), attaches month
// names, and sorts by year then month ascending.
func BuildMonthly(rows []MonthRow) []MonthlySales {
	type key struct{ year, month int }
	totals := make(map[key]float64)
	for _, r := range rows {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		totals[key{r.Year, r.Month}] += r.Total
	}

	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	out := make([]MonthlySales, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthlySales{
			Year:  k.year,
			Month: MonthName(k.month),
			Total: totals[k],
		})
	}
	return out
}
