package inventory

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	RecordSale(ctx context.Context, productID, color string, quantity int) (bool, error)
	SeedProduct(ctx context.Context, product Product) error
	GetProductById(ctx context.Context, productID string) (*Product, error)
	GetProducts(ctx context.Context, category string) ([]Product, error)
	GetFeaturedProducts(ctx context.Context, limit int64) ([]Product, error)
	GetLowStockProducts(ctx context.Context, threshold int) ([]Product, error)
	AddProduct(ctx context.Context, product Product) error
	UpdateProduct(ctx context.Context, productID string, patch ProductPatch, soldAt *int) (*Product, error)
	DeleteProduct(ctx context.Context, productID string) (bool, error)
}

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
	}
}

// RecordSale runs the clamp-and-count as one update pipeline so concurrent
// fulfilments of the same product serialize on the document. A false
// result means the product, or the requested variant, does not exist.
func (r *productRepository) RecordSale(ctx context.Context, productID, color string, quantity int) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, saleFilter(productID, color), salePipeline(color, quantity))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func saleFilter(productID, color string) bson.M {
	if color == "" {
		return bson.M{"id": productID}
	}
	return bson.M{"id": productID, "variants.color": color}
}

// decremented yields max(0, field - quantity), treating a missing field as 0.
func decremented(field string, quantity int) bson.M {
	return bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{bson.M{"$ifNull": bson.A{field, 0}}, quantity}}}}
}

func salePipeline(color string, quantity int) mongo.Pipeline {
	set := bson.D{{Key: "sold", Value: bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$sold", 0}}, quantity}}}}

	if color == "" {
		set = append(set, bson.E{Key: "stockCount", Value: decremented("$stockCount", quantity)})
	} else {
		set = append(set, bson.E{Key: "variants", Value: bson.M{"$map": bson.M{
			"input": "$variants",
			"as":    "v",
			"in": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$$v.color", color}},
				bson.M{"$mergeObjects": bson.A{"$$v", bson.M{"stock": decremented("$$v.stock", quantity)}}},
				"$$v",
			}},
		}}})
	}

	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

func (r *productRepository) SeedProduct(ctx context.Context, product Product) error {
	filter := bson.M{"name": product.Name}
	update := bson.M{"$setOnInsert": product}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *productRepository) GetProductById(ctx context.Context, productID string) (*Product, error) {
	return r.findOne(ctx, bson.M{"id": productID})
}

func (r *productRepository) findOne(ctx context.Context, filter bson.M) (*Product, error) {
	var product Product
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Product not found
		}
		return nil, err
	}
	return &product, nil
}

// GetProducts lists the catalog, optionally narrowed to one category.
func (r *productRepository) GetProducts(ctx context.Context, category string) ([]Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, filter, opts)
}

func (r *productRepository) GetFeaturedProducts(ctx context.Context, limit int64) ([]Product, error) {
	return r.find(ctx, bson.M{"isFeatured": true}, options.Find().SetLimit(limit))
}

// GetLowStockProducts returns products with stock below the threshold
func (r *productRepository) GetLowStockProducts(ctx context.Context, threshold int) ([]Product, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"stockCount": bson.M{"$lt": threshold}},
		bson.M{"variants.stock": bson.M{"$lt": threshold}},
	}}
	return r.find(ctx, filter)
}

func (r *productRepository) AddProduct(ctx context.Context, product Product) error {
	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// UpdateProduct writes only the fields patch carries and returns the stored
// product. sold is never written. With soldAt set the write applies only
// while sold still equals it, so a stock edit never lands on a sale it has
// not seen. A nil product means nothing matched.
func (r *productRepository) UpdateProduct(ctx context.Context, productID string, patch ProductPatch, soldAt *int) (*Product, error) {
	filter := bson.M{"id": productID}
	if soldAt != nil {
		filter["sold"] = *soldAt
	}

	set := patchSet(patch)
	if len(set) == 0 {
		return r.findOne(ctx, filter)
	}

	var product Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// patchSet maps the set fields of patch to their document keys.
func patchSet(patch ProductPatch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.OriginalPrice != nil {
		set["originalPrice"] = *patch.OriginalPrice
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Images != nil {
		set["images"] = patch.Images
	}
	if patch.StockCount != nil {
		set["stockCount"] = *patch.StockCount
	}
	if patch.Variants != nil {
		set["variants"] = patch.Variants
	}
	if patch.IsFeatured != nil {
		set["isFeatured"] = *patch.IsFeatured
	}
	return set
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"id": productID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *productRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
