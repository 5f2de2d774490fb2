package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a directed edge in the follow graph. The composite primary
// key makes the (follower, followed) pair unique; the check constraint
// keeps users from following themselves.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false;check:follows_no_self_follow,follower_id <> followed_id" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false" json:"followed_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SaveFollow inserts the edge. A repeated follow is a no-op rather than
// a constraint error; the returned flag tells callers whether a new
// edge was created.
func (f *Follow) SaveFollow(db *gorm.DB) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (f *Follow) DeleteFollow(db *gorm.DB) (int64, error) {
	result := db.Where("follower_id = ? AND followed_id = ?", f.FollowerID, f.FollowedID).
		Delete(&Follow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
