package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedVideos(ctx, pool)
	seedSiteConfig(ctx, pool)

	log.Println("Seeding completed successfully!")
}

func seedVideos(ctx context.Context, pool *pgxpool.Pool) {
	videos := []struct {
		Title        string
		Description  string
		Price        float64
		DurationSecs int
		ThumbnailURL string
	}{
		{"City Lights Timelapse", "A night drive through the city in 4K.", 9.99, 420, "https://cdn.example.com/thumbs/city-lights.jpg"},
		{"Ocean Depths", "Diving footage from the coral reef.", 14.50, 780, "https://cdn.example.com/thumbs/ocean-depths.jpg"},
		{"Mountain Sunrise", "Slow pan across the ridge at dawn.", 7.25, 310, "https://cdn.example.com/thumbs/mountain-sunrise.jpg"},
		{"Street Food Tour", "A walk through the weekend night market.", 12.00, 960, "https://cdn.example.com/thumbs/street-food.jpg"},
		{"Rainforest Ambience", "Three hours of unedited forest sound and motion.", 19.99, 10800, "https://cdn.example.com/thumbs/rainforest.jpg"},
	}

	log.Println("Seeding videos...")
	for _, v := range videos {
		_, err := pool.Exec(ctx, `
INSERT INTO videos (title, description, price, duration_secs, thumbnail_url)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT DO NOTHING`,
			v.Title, v.Description, v.Price, v.DurationSecs, v.ThumbnailURL)
		if err != nil {
			log.Fatalf("Failed to seed video %q: %v", v.Title, err)
		}
	}
}

func seedSiteConfig(ctx context.Context, pool *pgxpool.Pool) {
	log.Println("Seeding site config...")
	_, err := pool.Exec(ctx, `
INSERT INTO site_config (id, site_name, video_list_title, crypto_wallets)
VALUES (1, 'VideosPlus', 'Latest Videos', ARRAY['BTC:bc1qexampleseedaddress', 'ETH:0xexampleseedaddress'])
ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Fatalf("Failed to seed site config: %v", err)
	}
}
