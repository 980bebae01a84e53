package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and tests.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB. A zero key
// seeds from the clock; any other key makes the generated data repeatable.
func NewFactory(db *gorm.DB, key int64) *Factory {
	if key == 0 {
		key = time.Now().UnixNano()
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, faker: gofakeit.New(key), rng: rand.New(rand.NewSource(key))}
}

// BuildUser returns an unsaved user with a fake, length-safe name.
func (f *Factory) BuildUser(seq int) *models.User {
	name := strings.ToLower(f.faker.Username())
	if len(name) > 48 {
		name = name[:48]
	}
	return &models.User{Name: fmt.Sprintf("%s_%d", name, seq)}
}

// CreateUsers persists n fake users in one batch.
func (f *Factory) CreateUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, f.BuildUser(i+1))
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := f.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// BuildTweet returns an unsaved tweet by author without attachments.
func (f *Factory) BuildTweet(author *models.User) *models.Tweet {
	return &models.Tweet{
		AuthorID:      author.ID,
		TweetData:     f.faker.Sentence(f.rng.Intn(12) + 3),
		TweetMediaIDs: []uint{},
	}
}

// CreateTweets spreads n tweets over users at random.
func (f *Factory) CreateTweets(users []*models.User, n int) ([]*models.Tweet, error) {
	if len(users) == 0 || n <= 0 {
		return []*models.Tweet{}, nil
	}
	tweets := make([]*models.Tweet, 0, n)
	for i := 0; i < n; i++ {
		tweets = append(tweets, f.BuildTweet(users[f.rng.Intn(len(users))]))
	}
	if err := f.db.Omit("Author", "Likes", "Medias").Create(&tweets).Error; err != nil {
		return nil, err
	}
	return tweets, nil
}

// CreateFollowGraph gives every user up to perUser followees. Duplicates and
// self-follows are skipped.
func (f *Factory) CreateFollowGraph(users []*models.User, perUser int) (int, error) {
	if len(users) < 2 || perUser <= 0 {
		return 0, nil
	}
	var follows []models.Follow
	for _, u := range users {
		seen := map[uint]bool{u.ID: true}
		for i := 0; i < perUser && len(seen) < len(users); i++ {
			target := users[f.rng.Intn(len(users))]
			if seen[target.ID] {
				continue
			}
			seen[target.ID] = true
			follows = append(follows, models.Follow{FollowerID: u.ID, FolloweeID: target.ID})
		}
	}
	if len(follows) == 0 {
		return 0, nil
	}
	res := f.db.Omit("Follower", "Followee").Clauses(clause.OnConflict{DoNothing: true}).Create(&follows)
	return int(res.RowsAffected), res.Error
}

// CreateLikes adds up to perTweet likes from random users to each tweet.
func (f *Factory) CreateLikes(users []*models.User, tweets []*models.Tweet, perTweet int) (int, error) {
	if len(users) == 0 || len(tweets) == 0 || perTweet <= 0 {
		return 0, nil
	}
	var likes []models.Like
	for _, t := range tweets {
		seen := map[uint]bool{}
		for i := 0; i < perTweet && len(seen) < len(users); i++ {
			u := users[f.rng.Intn(len(users))]
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			likes = append(likes, models.Like{TweetID: t.ID, UserID: u.ID})
		}
	}
	if len(likes) == 0 {
		return 0, nil
	}
	res := f.db.Omit("User").Clauses(clause.OnConflict{DoNothing: true}).Create(&likes)
	return int(res.RowsAffected), res.Error
}
