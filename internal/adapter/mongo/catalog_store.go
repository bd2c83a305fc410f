package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mumbramart/storefront-service/internal/domain/entity"
	"github.com/mumbramart/storefront-service/internal/repository"
)

const sellersCollection = "sellers"

// CatalogStore reads and mutates the seller catalog in MongoDB. It serves
// point-in-time snapshots for the ranking engine and the seller-facing CRUD
// operations; live-update subscription is layered on top by the catalog
// watcher.
type CatalogStore struct {
	collection *mongo.Collection
}

func NewCatalogStore(client *mongo.Client, dbName string) *CatalogStore {
	return &CatalogStore{
		collection: client.Database(dbName).Collection(sellersCollection),
	}
}

// GetOnce reads the whole seller catalog. Sellers come back in ID order so
// repeated reads of an unchanged catalog produce identical snapshots.
func (s *CatalogStore) GetOnce(ctx context.Context) (*entity.CatalogSnapshot, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCatalogUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []sellerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCatalogUnavailable, err)
	}

	snapshot := &entity.CatalogSnapshot{
		Sellers: make([]entity.SellerCatalog, 0, len(docs)),
		TakenAt: time.Now().UTC(),
	}
	for i := range docs {
		snapshot.Sellers = append(snapshot.Sellers, docs[i].toSellerCatalog())
	}
	return snapshot, nil
}

func (s *CatalogStore) UpsertShop(ctx context.Context, sellerID string, shop *entity.ShopProfile) error {
	if sellerID == "" {
		return errors.New("seller ID cannot be empty")
	}
	update := bson.M{
		"$set": bson.M{
			"shop":       toShopDocument(shop),
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.collection.UpdateByID(ctx, sellerID, update, opts); err != nil {
		return fmt.Errorf("failed to upsert shop for seller %s: %w", sellerID, err)
	}
	return nil
}

func (s *CatalogStore) InsertListing(ctx context.Context, listing *entity.Listing) error {
	if listing == nil || listing.ID == "" || listing.SellerID == "" {
		return errors.New("listing must carry seller and listing IDs")
	}
	update := bson.M{
		"$set": bson.M{
			"products." + listing.ID: toListingDocument(listing),
			"updated_at":             time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.collection.UpdateByID(ctx, listing.SellerID, update, opts); err != nil {
		return fmt.Errorf("failed to insert listing %s for seller %s: %w", listing.ID, listing.SellerID, err)
	}
	return nil
}

func (s *CatalogStore) UpdateListing(ctx context.Context, listing *entity.Listing) error {
	if listing == nil || listing.ID == "" || listing.SellerID == "" {
		return errors.New("listing must carry seller and listing IDs")
	}
	existing, err := s.GetListing(ctx, listing.SellerID, listing.ID)
	if err != nil {
		return err
	}
	listing.CreatedAt = existing.CreatedAt
	listing.UpdatedAt = time.Now().UTC()
	return s.InsertListing(ctx, listing)
}

// DeleteListing unsets the listing under both the current and legacy keys.
func (s *CatalogStore) DeleteListing(ctx context.Context, sellerID, listingID string) error {
	update := bson.M{
		"$unset": bson.M{
			"products." + listingID: "",
			"product." + listingID:  "",
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := s.collection.UpdateByID(ctx, sellerID, update)
	if err != nil {
		return fmt.Errorf("failed to delete listing %s for seller %s: %w", listingID, sellerID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetListing looks one listing up, consulting the legacy "product" key when
// the listing is absent from "products".
func (s *CatalogStore) GetListing(ctx context.Context, sellerID, listingID string) (*entity.Listing, error) {
	var doc sellerDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": sellerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read seller %s: %w", sellerID, err)
	}

	if ld, ok := doc.Products[listingID]; ok {
		listing := ld.toListing(sellerID, listingID)
		return &listing, nil
	}
	if ld, ok := doc.LegacyProduct[listingID]; ok {
		listing := ld.toListing(sellerID, listingID)
		return &listing, nil
	}
	return nil, repository.ErrNotFound
}
