package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modesta/db"
	"modesta/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Mongo implements Store on the collections bound by db.Connect.
// Transactions require a replica set.
type Mongo struct {
	client   *mongo.Client
	products *mongo.Collection
	carts    *mongo.Collection
	coupons  *mongo.Collection
	orders   *mongo.Collection
}

func NewMongo() *Mongo {
	return &Mongo{
		client:   db.Client,
		products: db.ProductsCollection,
		carts:    db.CartsCollection,
		coupons:  db.CouponsCollection,
		orders:   db.OrdersCollection,
	}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (m *Mongo) GetProducts(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	out := make(map[string]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := m.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		out[p.ID] = &p
	}
	return out, cursor.Err()
}

func (m *Mongo) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	if err := m.carts.FindOne(ctx, bson.M{"user": userID}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (m *Mongo) SaveCart(ctx context.Context, cart *models.Cart) error {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	_, err := m.carts.ReplaceOne(ctx, bson.M{"user": cart.UserID}, cart, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (m *Mongo) FindCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	if err := m.coupons.FindOne(ctx, bson.M{"code": NormalizeCode(code)}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (m *Mongo) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	var c models.Coupon
	if err := m.coupons.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (m *Mongo) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	cursor, err := m.coupons.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Coupon{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	if _, err := m.coupons.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

func couponUpdate(p CouponPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Code != nil {
		set["code"] = NormalizeCode(*p.Code)
	}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.Value != nil {
		set["value"] = *p.Value
	}
	if p.MinPurchase != nil {
		set["minPurchase"] = *p.MinPurchase
	}
	if p.MaxDiscount != nil && !p.ClearMaxDiscount {
		set["maxDiscount"] = *p.MaxDiscount
	}
	if p.MaxUses != nil {
		set["maxUses"] = *p.MaxUses
	}
	if p.ExpiresAt != nil {
		set["expiresAt"] = *p.ExpiresAt
	}
	if p.IsActive != nil {
		set["isActive"] = *p.IsActive
	}
	update := bson.M{"$set": set}
	if p.ClearMaxDiscount {
		update["$unset"] = bson.M{"maxDiscount": ""}
	}
	return update
}

func (m *Mongo) UpdateCoupon(ctx context.Context, id string, p CouponPatch, now time.Time) (*models.Coupon, error) {
	var c models.Coupon
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.coupons.FindOneAndUpdate(ctx, bson.M{"_id": id}, couponUpdate(p, now), opts).Decode(&c)
	switch {
	case mongo.IsDuplicateKeyError(err):
		return nil, ErrDuplicate
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return &c, nil
}

func (m *Mongo) DeleteCoupon(ctx context.Context, id string) error {
	res, err := m.coupons.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.orders.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Order{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := m.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(f.Skip)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	cursor, err := m.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	out := []models.Order{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (m *Mongo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := m.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (m *Mongo) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, now time.Time) (*models.Order, error) {
	var o models.Order
	err := m.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (m *Mongo) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, mongoTx{m})
	}, opts)
	return err
}

type mongoTx struct {
	m *Mongo
}

func (t mongoTx) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	res, err := t.m.products.UpdateOne(ctx,
		bson.M{"_id": productID, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$currentDate": bson.M{"updatedAt": true}},
	)
	if err != nil {
		return false, fmt.Errorf("decrement stock %s: %w", productID, err)
	}
	return res.MatchedCount == 1, nil
}

func (t mongoTx) RedeemCoupon(ctx context.Context, code string, now time.Time) (bool, error) {
	filter := bson.M{
		"code":     NormalizeCode(code),
		"isActive": true,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"expiresAt": bson.M{"$gte": now}},
				bson.M{"expiresAt": time.Time{}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"maxUses": models.UnlimitedUses},
				bson.M{"$expr": bson.M{"$lt": bson.A{"$usedCount", "$maxUses"}}},
			}},
		},
	}
	res, err := t.m.coupons.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"usedCount": 1},
		"$set": bson.M{"updatedAt": now},
	})
	if err != nil {
		return false, fmt.Errorf("redeem coupon %s: %w", code, err)
	}
	return res.MatchedCount == 1, nil
}

func (t mongoTx) InsertOrder(ctx context.Context, o *models.Order) error {
	if _, err := t.m.orders.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (t mongoTx) ClearCart(ctx context.Context, userID string, now time.Time) error {
	_, err := t.m.carts.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
