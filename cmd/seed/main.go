// Command seed loads the demo catalog, coupons and an admin account.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"modesta/categories"
	"modesta/config"
	"modesta/db"
	"modesta/globals"
	"modesta/middleware"
	"modesta/models"
	"modesta/profile"
	"modesta/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	adminEmail    = "admin@modesta.local"
	adminPassword = "admin123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	globals.JwtSecret = []byte(cfg.JWTSecret)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("❌ MongoDB error: %v", err)
	}
	defer db.Disconnect(context.Background())
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Index setup failed: %v", err)
	}

	now := time.Now()
	upsert := options.Update().SetUpsert(true)

	for _, sp := range seedProducts {
		p := sp.product(utils.GetUUID(), now)
		doc := bson.M{"$setOnInsert": p}
		if _, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"name": p.Name}, doc, upsert); err != nil {
			log.Fatalf("❌ Seeding product %q: %v", p.Name, err)
		}
	}
	log.Printf("Seeded %d products", len(seedProducts))

	for _, name := range seedCategories() {
		c := models.Category{
			ID:        utils.GetUUID(),
			Name:      name,
			Slug:      categories.Slugify(name),
			Image:     "/images/categories/" + strings.ToLower(name) + ".png",
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := db.CategoriesCollection.UpdateOne(ctx, bson.M{"slug": c.Slug}, bson.M{"$setOnInsert": c}, upsert); err != nil {
			log.Fatalf("❌ Seeding category %q: %v", name, err)
		}
	}

	for _, c := range seedCoupons(now) {
		c.ID = utils.GetUUID()
		c.CreatedAt, c.UpdatedAt = now, now
		if _, err := db.CouponsCollection.UpdateOne(ctx, bson.M{"code": c.Code}, bson.M{"$setOnInsert": c}, upsert); err != nil {
			log.Fatalf("❌ Seeding coupon %s: %v", c.Code, err)
		}
	}

	hash, err := profile.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("❌ Hashing admin password: %v", err)
	}
	admin := models.User{
		ID:        utils.GetUUID(),
		Name:      "Store Admin",
		Email:     adminEmail,
		Password:  hash,
		Addresses: []models.Address{},
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"email": adminEmail}, bson.M{"$setOnInsert": admin}, upsert); err != nil {
		log.Fatalf("❌ Seeding admin: %v", err)
	}

	var stored models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": adminEmail}).Decode(&stored); err != nil {
		log.Fatalf("❌ Reading admin: %v", err)
	}
	tok, err := middleware.IssueToken(stored.ID, stored.Name, []string{models.RoleAdmin}, 30*24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Issuing admin token: %v", err)
	}

	log.Println("✅ Seed complete")
	fmt.Println(tok)
}
