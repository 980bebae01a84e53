// Command seed loads the reference fixtures or fake data into the database.
package main

import (
	"context"
	"flag"
	"log"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/seed"
)

func main() {
	mode := flag.String("mode", "fixtures", "fixtures loads the reference dataset, fake generates random data")
	numUsers := flag.Int("users", 50, "Number of users to create")
	numTweets := flag.Int("tweets", 200, "Number of tweets to create")
	follows := flag.Int("follows", 5, "Follow edges per user")
	likes := flag.Int("likes", 3, "Likes per tweet")
	key := flag.Int64("seed", 0, "Random seed (0 = time based)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch *mode {
	case "fixtures":
		if err := seed.ApplyFixtures(context.Background(), db, *shouldClean); err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
	case "fake":
		log.Printf("Target: %d users, %d tweets, clean=%v\n", *numUsers, *numTweets, *shouldClean)
		err := seed.Seed(db, seed.Options{
			NumUsers:         *numUsers,
			NumTweets:        *numTweets,
			FollowsPerUser:   *follows,
			LikesPerTweet:    *likes,
			ShouldClean:      *shouldClean,
			DeterministicKey: *key,
		})
		if err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	default:
		log.Fatalf("unknown mode %q (want fixtures or fake)", *mode)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
}
