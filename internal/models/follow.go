package models

import "time"

// Follow records that FollowerID follows FolloweeID.
// The pair is unique, so repeated follows collapse into one row.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index:idx_follows_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followee User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
