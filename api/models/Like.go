package models

import (
	"time"

	"gorm.io/gorm"
)

// Like records that a user liked a message. The composite primary key
// allows at most one like per (user, message) pair; a second insert is
// a uniqueness violation from the store.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	MessageID uint      `gorm:"primaryKey;autoIncrement:false" json:"message_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Message   Message   `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Like) SaveLike(db *gorm.DB) (*Like, error) {
	if err := db.Create(&l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Like) DeleteLike(db *gorm.DB) (int64, error) {
	result := db.Where("user_id = ? AND message_id = ?", l.UserID, l.MessageID).
		Delete(&Like{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindLike loads the like row for a (user, message) pair.
func (l *Like) FindLike(db *gorm.DB, userID, messageID uint) (*Like, error) {
	var like Like
	err := db.Where("user_id = ? AND message_id = ?", userID, messageID).
		Take(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}
