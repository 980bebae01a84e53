package seed

import (
	"context"
	"embed"
	"fmt"
	"log"

	"chirp/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

const fixtureFile = "fixtures/dataset.yaml"

// Dataset is the reference graph shipped with the binary.
type Dataset struct {
	Users []struct {
		ID   uint   `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"users"`
	Tweets []struct {
		ID            uint   `yaml:"id"`
		AuthorID      uint   `yaml:"author_id"`
		TweetData     string `yaml:"tweet_data"`
		TweetMediaIDs []uint `yaml:"tweet_media_ids"`
	} `yaml:"tweets"`
	Medias []struct {
		ID       uint   `yaml:"id"`
		FileName string `yaml:"file_name"`
		FileBody string `yaml:"file_body"`
		TweetID  *uint  `yaml:"tweet_id"`
	} `yaml:"medias"`
	Follows []struct {
		ID         uint `yaml:"id"`
		FollowerID uint `yaml:"follower_id"`
		FolloweeID uint `yaml:"followee_id"`
	} `yaml:"follows"`
	Likes []struct {
		ID      uint `yaml:"id"`
		TweetID uint `yaml:"tweet_id"`
		UserID  uint `yaml:"user_id"`
	} `yaml:"likes"`
}

// LoadFixtures parses the embedded dataset.
func LoadFixtures() (*Dataset, error) {
	raw, err := fixtureFS.ReadFile(fixtureFile)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &ds, nil
}

// sequenceTables lists the tables whose identity sequence must follow the
// explicit ids written by ApplyFixtures.
var sequenceTables = []string{"users", "tweets", "medias", "follows", "likes"}

// ApplyFixtures writes the embedded dataset with its explicit ids in a single
// transaction. With clean set, existing rows are removed first.
func ApplyFixtures(ctx context.Context, db *gorm.DB, clean bool) error {
	ds, err := LoadFixtures()
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clean {
			if err := clearData(tx); err != nil {
				return fmt.Errorf("clear data: %w", err)
			}
		}

		log.Println("🌱 Loading fixture dataset...")
		for _, u := range ds.Users {
			if err := tx.Create(&models.User{ID: u.ID, Name: u.Name}).Error; err != nil {
				return fmt.Errorf("fixture user %s: %w", u.Name, err)
			}
		}
		for _, t := range ds.Tweets {
			ids := t.TweetMediaIDs
			if ids == nil {
				ids = []uint{}
			}
			tweet := &models.Tweet{ID: t.ID, AuthorID: t.AuthorID, TweetData: t.TweetData, TweetMediaIDs: ids}
			if err := tx.Omit("Author", "Likes", "Medias").Create(tweet).Error; err != nil {
				return fmt.Errorf("fixture tweet %d: %w", t.ID, err)
			}
		}
		for _, m := range ds.Medias {
			media := &models.Media{ID: m.ID, FileName: m.FileName, FileBody: []byte(m.FileBody), TweetID: m.TweetID}
			if err := tx.Create(media).Error; err != nil {
				return fmt.Errorf("fixture media %d: %w", m.ID, err)
			}
		}
		for _, f := range ds.Follows {
			follow := &models.Follow{ID: f.ID, FollowerID: f.FollowerID, FolloweeID: f.FolloweeID}
			if err := tx.Omit("Follower", "Followee").Create(follow).Error; err != nil {
				return fmt.Errorf("fixture follow %d: %w", f.ID, err)
			}
		}
		for _, l := range ds.Likes {
			like := &models.Like{ID: l.ID, TweetID: l.TweetID, UserID: l.UserID}
			if err := tx.Omit("User").Create(like).Error; err != nil {
				return fmt.Errorf("fixture like %d: %w", l.ID, err)
			}
		}

		if tx.Dialector.Name() == "postgres" {
			for _, table := range sequenceTables {
				if err := resetSequence(tx, table); err != nil {
					return err
				}
			}
		}

		log.Printf("✓ Loaded %d users, %d tweets, %d medias, %d follows, %d likes",
			len(ds.Users), len(ds.Tweets), len(ds.Medias), len(ds.Follows), len(ds.Likes))
		return nil
	})
}

func resetSequence(tx *gorm.DB, table string) error {
	sql := fmt.Sprintf(`
		SELECT setval(
			pg_get_serial_sequence('%s', 'id'),
			GREATEST((SELECT COALESCE(MAX(id), 1) FROM %s), 1),
			true
		)`, table, table)
	if err := tx.Exec(sql).Error; err != nil {
		return fmt.Errorf("reset %s sequence: %w", table, err)
	}
	return nil
}
