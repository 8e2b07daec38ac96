package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lbsshop/storefront-api/internal/core/domain"
)

// addItemAttempts bounds the retries when two first adds race on the upsert.
const addItemAttempts = 3

type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCarts)}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.get(ctx, userID)
}

func (r *CartRepository) get(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.NewCart(userID), nil
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	return &c, nil
}

// incrementItem matches the cart only when it already holds productID.
func incrementItem(userID, productID string, quantity int) (filter, update bson.M) {
	return bson.M{"_id": userID, "items.product_id": productID},
		bson.M{"$inc": bson.M{"items.$.quantity": quantity}}
}

// pushItem matches the cart only when it lacks productID. Upserted, a cart
// that does exist but already holds the line collides on _id.
func pushItem(userID, productID string, quantity int) (filter, update bson.M) {
	return bson.M{"_id": userID, "items.product_id": bson.M{"$ne": productID}},
		bson.M{"$push": bson.M{"items": domain.CartItem{ProductID: productID, Quantity: quantity}}}
}

// AddItem increments an existing line in place, otherwise pushes a new line,
// creating the cart document on first use. Each step is a single-document update.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	for attempt := 0; attempt < addItemAttempts; attempt++ {
		filter, update := incrementItem(userID, productID, quantity)
		res, err := r.col.UpdateOne(ctx, filter, update)
		if err != nil {
			return nil, fmt.Errorf("increment cart item: %w", err)
		}
		if res.MatchedCount == 1 {
			return r.get(ctx, userID)
		}

		filter, update = pushItem(userID, productID, quantity)
		_, err = r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if mongo.IsDuplicateKeyError(err) {
			// The line appeared between the two updates; increment it instead.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("push cart item: %w", err)
		}
		return r.get(ctx, userID)
	}
	return nil, fmt.Errorf("add cart item: contention on cart %s", userID)
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"items": bson.M{"product_id": productID}}},
	)
	if err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return r.get(ctx, userID)
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
