package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MaxMessageLength bounds warble text the same way the users table
// bounds usernames: enforced before the insert is attempted.
const MaxMessageLength = 140

// Message text carries a CHECK in addition to NOT NULL so that a
// message committed without text fails inside the store, not in
// application code.
type Message struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Text      string    `gorm:"size:140;not null;check:messages_text_present,text <> ''" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Author    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (m *Message) Prepare() {
	m.ID = 0
	m.Text = html.EscapeString(strings.TrimSpace(m.Text))
	m.Author = User{}
	m.CreatedAt = time.Now()
}

// Validate rejects oversized text. Missing text is deliberately not
// checked here; the store's constraint is the enforcement point.
func (m *Message) Validate() map[string]string {
	var errorMessages = make(map[string]string)
	if len(m.Text) > MaxMessageLength {
		errorMessages["Invalid_text"] = "Message can be at most 140 characters"
	}
	if m.UserID == 0 {
		errorMessages["Required_author"] = "Required Author"
	}
	return errorMessages
}

func (m *Message) SaveMessage(db *gorm.DB) (*Message, error) {
	if err := db.Create(&m).Error; err != nil {
		return nil, err
	}
	if err := db.Model(m).Association("Author").Find(&m.Author); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Message) FindMessageByID(db *gorm.DB, mid uint) (*Message, error) {
	var message Message
	err := db.Preload("Author").Where("id = ?", mid).Take(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("message not found")
		}
		return nil, err
	}
	return &message, nil
}

func (m *Message) FindMessagesByUser(db *gorm.DB, uid uint) ([]Message, error) {
	var messages []Message
	err := db.Preload("Author").
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

// TimelineFor returns the newest messages written by the user or by
// anyone the user follows.
func (m *Message) TimelineFor(db *gorm.DB, uid uint) ([]Message, error) {
	var messages []Message
	err := db.Preload("Author").
		Where("user_id = ? OR user_id IN (SELECT followed_id FROM follows WHERE follower_id = ?)", uid, uid).
		Order("created_at DESC, id DESC").
		Limit(100).
		Find(&messages).Error
	return messages, err
}

func (m *Message) DeleteAMessage(db *gorm.DB, mid uint) (int64, error) {
	result := db.Where("id = ?", mid).Delete(&Message{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UsersWhoLiked returns the users that liked this message, newest
// like first.
func (m *Message) UsersWhoLiked(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Table("users").
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.message_id = ?", m.ID).
		Order("likes.created_at DESC").
		Find(&users).Error
	return users, err
}

func (m *Message) CountLikes(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Like{}).Where("message_id = ?", m.ID).Count(&count).Error
	return count, err
}
