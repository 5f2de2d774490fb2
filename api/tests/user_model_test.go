package tests

import (
	"strings"
	"testing"

	"warbler/api/models"
	"warbler/api/security"
	"warbler/api/utils/formaterror"

	"github.com/stretchr/testify/assert"
)

func TestSignupHashesPassword(t *testing.T) {
	server := newTestServer(t)

	user, err := models.Signup("testuser", "testuser@example.com", "password123", "")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, strings.HasPrefix(user.Password, "$2"))
	assert.NoError(t, security.VerifyPassword(user.Password, "password123"))

	saved, err := user.SaveUser(server.DB)
	assert.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.NotEmpty(t, saved.PublicID)
	assert.Equal(t, models.DefaultImageURL, saved.ImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, saved.HeaderImageURL)
}

func TestAuthenticate(t *testing.T) {
	server := newTestServer(t)

	user, err := models.Signup("testuser", "testuser@example.com", "password123", "")
	assert.NoError(t, err)
	_, err = user.SaveUser(server.DB)
	assert.NoError(t, err)

	found := models.Authenticate(server.DB, "testuser", "password123")
	if assert.NotNil(t, found) {
		assert.Equal(t, user.ID, found.ID)
	}

	assert.Nil(t, models.Authenticate(server.DB, "testuser", "wrongpassword"))
	assert.Nil(t, models.Authenticate(server.DB, "nosuchuser", "password123"))
}

func TestDuplicateUsernameFailsToSave(t *testing.T) {
	server := newTestServer(t)

	first, err := models.Signup("testuser", "first@example.com", "password123", "")
	assert.NoError(t, err)
	_, err = first.SaveUser(server.DB)
	assert.NoError(t, err)

	second, err := models.Signup("testuser", "second@example.com", "password123", "")
	assert.NoError(t, err)
	_, err = second.SaveUser(server.DB)
	assert.Error(t, err)
	assert.True(t, formaterror.IsUniqueViolation(err))
}

func TestDuplicateEmailFailsToSave(t *testing.T) {
	server := newTestServer(t)

	first, err := models.Signup("firstuser", "shared@example.com", "password123", "")
	assert.NoError(t, err)
	_, err = first.SaveUser(server.DB)
	assert.NoError(t, err)

	second, err := models.Signup("seconduser", "shared@example.com", "password123", "")
	assert.NoError(t, err)
	_, err = second.SaveUser(server.DB)
	assert.Error(t, err)
	assert.True(t, formaterror.IsUniqueViolation(err))
}

func TestSignupValidation(t *testing.T) {
	user, err := models.Signup("", "not-an-email", "abc", "")
	assert.NoError(t, err)

	errs := user.Validate("")
	assert.Contains(t, errs, "Required_username")
	assert.Contains(t, errs, "Invalid_email")
	assert.Contains(t, errs, "Invalid_password")
}

func TestSignupShortPasswordNotHashed(t *testing.T) {
	// The length rule must see the typed password, so nothing may be
	// hashed until validation passes.
	user, err := models.Signup("testuser", "testuser@example.com", "abc", "")
	assert.NoError(t, err)
	assert.Equal(t, "abc", user.Password)
	assert.Contains(t, user.Validate(""), "Invalid_password")
}

func TestFollowGraph(t *testing.T) {
	server := newTestServer(t)

	alice, _ := models.Signup("alice", "alice@example.com", "password123", "")
	bob, _ := models.Signup("bob", "bob@example.com", "password123", "")
	_, err := alice.SaveUser(server.DB)
	assert.NoError(t, err)
	_, err = bob.SaveUser(server.DB)
	assert.NoError(t, err)

	follow := models.Follow{FollowerID: alice.ID, FollowedID: bob.ID}
	created, err := follow.SaveFollow(server.DB)
	assert.NoError(t, err)
	assert.True(t, created)

	following, err := alice.IsFollowing(server.DB, bob)
	assert.NoError(t, err)
	assert.True(t, following)

	followedBy, err := bob.IsFollowedBy(server.DB, alice)
	assert.NoError(t, err)
	assert.True(t, followedBy)

	reverse, err := bob.IsFollowing(server.DB, alice)
	assert.NoError(t, err)
	assert.False(t, reverse)

	count, err := alice.CountFollowing(server.DB)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = bob.CountFollowers(server.DB)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	followingUsers, err := alice.Following(server.DB)
	assert.NoError(t, err)
	if assert.Len(t, followingUsers, 1) {
		assert.Equal(t, "bob", followingUsers[0].Username)
	}
}

func TestRepeatFollowIsNoop(t *testing.T) {
	server := newTestServer(t)

	alice, _ := models.Signup("alice", "alice@example.com", "password123", "")
	bob, _ := models.Signup("bob", "bob@example.com", "password123", "")
	alice.SaveUser(server.DB)
	bob.SaveUser(server.DB)

	first := models.Follow{FollowerID: alice.ID, FollowedID: bob.ID}
	created, err := first.SaveFollow(server.DB)
	assert.NoError(t, err)
	assert.True(t, created)

	second := models.Follow{FollowerID: alice.ID, FollowedID: bob.ID}
	created, err = second.SaveFollow(server.DB)
	assert.NoError(t, err)
	assert.False(t, created)

	count, err := alice.CountFollowing(server.DB)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSelfFollowRejected(t *testing.T) {
	server := newTestServer(t)

	alice, _ := models.Signup("alice", "alice@example.com", "password123", "")
	alice.SaveUser(server.DB)

	follow := models.Follow{FollowerID: alice.ID, FollowedID: alice.ID}
	_, err := follow.SaveFollow(server.DB)
	assert.Error(t, err)
	assert.True(t, formaterror.IsIntegrityViolation(err))
}

func TestDeleteUserCascades(t *testing.T) {
	server := newTestServer(t)

	alice, _ := models.Signup("alice", "alice@example.com", "password123", "")
	bob, _ := models.Signup("bob", "bob@example.com", "password123", "")
	alice.SaveUser(server.DB)
	bob.SaveUser(server.DB)

	message := models.Message{Text: "hello world", UserID: alice.ID}
	_, err := message.SaveMessage(server.DB)
	assert.NoError(t, err)

	follow := models.Follow{FollowerID: bob.ID, FollowedID: alice.ID}
	_, err = follow.SaveFollow(server.DB)
	assert.NoError(t, err)

	like := models.Like{UserID: bob.ID, MessageID: message.ID}
	_, err = like.SaveLike(server.DB)
	assert.NoError(t, err)

	rows, err := alice.DeleteAUser(server.DB, alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	var messageCount, followCount, likeCount int64
	server.DB.Model(&models.Message{}).Where("user_id = ?", alice.ID).Count(&messageCount)
	server.DB.Model(&models.Follow{}).Where("followed_id = ?", alice.ID).Count(&followCount)
	server.DB.Model(&models.Like{}).Where("message_id = ?", message.ID).Count(&likeCount)
	assert.Zero(t, messageCount)
	assert.Zero(t, followCount)
	assert.Zero(t, likeCount)
}

func TestSearchUsers(t *testing.T) {
	server := newTestServer(t)

	for _, name := range []string{"warblerfan", "warblerpro", "someoneelse"} {
		user, _ := models.Signup(name, name+"@example.com", "password123", "")
		_, err := user.SaveUser(server.DB)
		assert.NoError(t, err)
	}

	found, err := (&models.User{}).SearchUsers(server.DB, "warbler")
	assert.NoError(t, err)
	assert.Len(t, *found, 2)

	none, err := (&models.User{}).SearchUsers(server.DB, "nomatch")
	assert.NoError(t, err)
	assert.Len(t, *none, 0)
}

func TestUpdatePassword(t *testing.T) {
	server := newTestServer(t)

	user, _ := models.Signup("alice", "alice@example.com", "password123", "")
	user.SaveUser(server.DB)

	update := models.User{Email: "alice@example.com", Password: "newpassword"}
	assert.NoError(t, update.UpdatePassword(server.DB))

	assert.Nil(t, models.Authenticate(server.DB, "alice", "password123"))
	assert.NotNil(t, models.Authenticate(server.DB, "alice", "newpassword"))
}
