package models

import "time"

// Media is an uploaded binary blob. TweetID stays nil until a tweet references it.
type Media struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FileBody  []byte    `gorm:"not null" json:"-"`
	FileName  string    `gorm:"size:255" json:"file_name"`
	TweetID   *uint     `gorm:"index:idx_medias_tweet" json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Media) TableName() string {
	return "medias"
}
