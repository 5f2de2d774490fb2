package models

import (
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// PasswordReset is a single-use token mailed to a user who forgot
// their password.
type PasswordReset struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *PasswordReset) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(p.Token) == "" {
		p.Token = uuid.NewV4().String()
	}
	return nil
}

func (p *PasswordReset) SaveDetails(db *gorm.DB) (*PasswordReset, error) {
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PasswordReset) FindByToken(db *gorm.DB, token string) (*PasswordReset, error) {
	var details PasswordReset
	err := db.Where("token = ?", token).Take(&details).Error
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func (p *PasswordReset) DeleteDetails(db *gorm.DB) (int64, error) {
	result := db.Where("id = ?", p.ID).Delete(&PasswordReset{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
