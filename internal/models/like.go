package models

import "time"

// Like is one user's like on one tweet. The (tweet, user) pair is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TweetID   uint      `gorm:"not null;uniqueIndex:idx_likes_tweet_user" json:"tweet_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_tweet_user;index:idx_likes_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
