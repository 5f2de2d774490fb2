package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"warbler/api/security"

	"github.com/badoux/checkmail"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

type User struct {
	ID             uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID       string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Username       string    `gorm:"size:255;not null;unique" json:"username"`
	Email          string    `gorm:"size:100;not null;unique" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	ImageURL       string    `gorm:"size:255" json:"image_url"`
	HeaderImageURL string    `gorm:"size:255" json:"header_image_url"`
	Bio            string    `gorm:"size:255" json:"bio"`
	Location       string    `gorm:"size:255" json:"location"`
	Messages       []Message `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"messages"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.PublicID) == "" {
		u.PublicID = uuid.NewV4().String()
	}
	return nil
}

// Signup builds a new user. The password is hashed only once the
// plaintext passes Validate, so the length rule applies to what the
// user typed, not to a bcrypt hash; on validation failure the user is
// returned unhashed and callers read the field errors from Validate.
// The user is not persisted; callers commit it with SaveUser so
// uniqueness violations surface on their transaction.
func Signup(username, email, password, imageURL string) (*User, error) {
	u := &User{
		Username: username,
		Email:    email,
		Password: password,
		ImageURL: imageURL,
	}
	u.Prepare()
	if errs := u.Validate(""); len(errs) > 0 {
		return u, nil
	}
	hashed, err := security.Hash(password)
	if err != nil {
		return nil, err
	}
	u.Password = string(hashed)
	return u, nil
}

// Authenticate looks a user up by username and verifies the password.
// It returns nil for an unknown username or a wrong password; bad
// credentials are a value result, not an error.
func Authenticate(db *gorm.DB, username, password string) *User {
	var user User
	err := db.Where("username = ?", strings.TrimSpace(username)).Take(&user).Error
	if err != nil {
		return nil
	}
	if security.VerifyPassword(user.Password, password) != nil {
		return nil
	}
	return &user
}

func (u *User) Prepare() {
	u.Username = html.EscapeString(strings.TrimSpace(u.Username))
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "login":
		if u.Username == "" {
			errorMessages["Required_username"] = "Required Username"
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
	case "update":
		if u.Username == "" {
			errorMessages["Required_username"] = "Required Username"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	default:
		if u.Username == "" {
			errorMessages["Required_username"] = "Required Username"
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if u.Password != "" && len(u.Password) < 6 {
			errorMessages["Invalid_password"] = "Password should be at least 6 characters"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	}
	return errorMessages
}

func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	err := db.Create(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) FindAllUsers(db *gorm.DB) (*[]User, error) {
	var users []User
	err := db.Limit(100).Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

// SearchUsers filters the user list by a case-insensitive username match.
func (u *User) SearchUsers(db *gorm.DB, query string) (*[]User, error) {
	var users []User
	err := db.Where("username LIKE ?", "%"+query+"%").
		Limit(100).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	var user User
	err := db.Where("id = ?", uid).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (u *User) UpdateAUser(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"username":         u.Username,
		"email":            u.Email,
		"image_url":        u.ImageURL,
		"header_image_url": u.HeaderImageURL,
		"bio":              u.Bio,
		"location":         u.Location,
		"updated_at":       time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("id = ?", uid).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword rehashes and stores a new password for the user with
// the given email.
func (u *User) UpdatePassword(db *gorm.DB) error {
	hashed, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	return db.Model(&User{}).Where("email = ?", u.Email).Updates(map[string]interface{}{
		"password":   string(hashed),
		"updated_at": time.Now(),
	}).Error
}

// DeleteAUser removes the user row. Messages, follows and likes go with
// it through the cascade constraints.
func (u *User) DeleteAUser(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("id = ?", uid).Delete(&User{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IsFollowing reports whether u follows other. A single lookup against
// the composite primary key of follows.
func (u *User) IsFollowing(db *gorm.DB, other *User) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", u.ID, other.ID).
		Count(&count).Error
	return count > 0, err
}

// IsFollowedBy is the inverse check.
func (u *User) IsFollowedBy(db *gorm.DB, other *User) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", other.ID, u.ID).
		Count(&count).Error
	return count > 0, err
}

func (u *User) Following(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Table("users").
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", u.ID).
		Order("follows.created_at DESC").
		Find(&users).Error
	return users, err
}

func (u *User) Followers(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Table("users").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", u.ID).
		Order("follows.created_at DESC").
		Find(&users).Error
	return users, err
}

func (u *User) CountFollowing(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("follower_id = ?", u.ID).Count(&count).Error
	return count, err
}

func (u *User) CountFollowers(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("followed_id = ?", u.ID).Count(&count).Error
	return count, err
}

// MessagesLiked returns the messages this user has liked, newest like
// first, with authors preloaded.
func (u *User) MessagesLiked(db *gorm.DB) ([]Message, error) {
	var messages []Message
	err := db.Preload("Author").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", u.ID).
		Order("likes.created_at DESC").
		Find(&messages).Error
	return messages, err
}

// LikedMessageIDs returns the set of message ids the user has liked,
// for rendering like state on timelines.
func (u *User) LikedMessageIDs(db *gorm.DB) (map[uint]bool, error) {
	var ids []uint
	err := db.Model(&Like{}).Where("user_id = ?", u.ID).Pluck("message_id", &ids).Error
	if err != nil {
		return nil, err
	}
	liked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
