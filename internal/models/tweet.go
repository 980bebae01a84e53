package models

import (
	"time"

	"gorm.io/datatypes"
)

// Tweet is a text post owned by its author. TweetMediaIDs keeps the attachment
// order the author asked for; the Media rows point back through TweetID.
type Tweet struct {
	ID            uint                      `gorm:"primaryKey" json:"id"`
	AuthorID      uint                      `gorm:"not null;index:idx_tweets_author" json:"author_id"`
	TweetData     string                    `gorm:"type:text;not null" json:"tweet_data"`
	TweetMediaIDs datatypes.JSONSlice[uint] `json:"tweet_media_ids"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`

	Author User    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Likes  []Like  `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE" json:"-"`
	Medias []Media `gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Tweet) TableName() string {
	return "tweets"
}

// MediaIDs returns the attachment ids as a plain slice.
func (t *Tweet) MediaIDs() []uint {
	if len(t.TweetMediaIDs) == 0 {
		return []uint{}
	}
	out := make([]uint, len(t.TweetMediaIDs))
	copy(out, t.TweetMediaIDs)
	return out
}
