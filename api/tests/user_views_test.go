package tests

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"warbler/api/models"

	"github.com/stretchr/testify/assert"
)

func TestSignupFlow(t *testing.T) {
	server := newTestServer(t)
	b := newBrowser(t, server)

	w := b.post("/signup", url.Values{
		"username": {"testuser"},
		"email":    {"testuser@example.com"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	home := b.get("/")
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "testuser")
	assert.Contains(t, home.Body.String(), "Your timeline")
}

func TestSignupRejectsShortPassword(t *testing.T) {
	server := newTestServer(t)
	b := newBrowser(t, server)

	w := b.post("/signup", url.Values{
		"username": {"testuser"},
		"email":    {"testuser@example.com"},
		"password": {"abc"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password should be at least 6 characters")

	var count int64
	server.DB.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestSignupDuplicateUsername(t *testing.T) {
	server := newTestServer(t)

	first := newBrowser(t, server)
	first.signup("testuser", "first@example.com", "password123")

	second := newBrowser(t, server)
	w := second.post("/signup", url.Values{
		"username": {"testuser"},
		"email":    {"second@example.com"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Username already taken")
}

func TestLoginAndLogoutFlow(t *testing.T) {
	server := newTestServer(t)

	setup := newBrowser(t, server)
	setup.signup("testuser", "testuser@example.com", "password123")

	b := newBrowser(t, server)

	bad := b.login("testuser", "wrongpassword")
	assert.Equal(t, http.StatusOK, bad.Code)
	assert.Contains(t, bad.Body.String(), "Invalid credentials.")

	good := b.login("testuser", "password123")
	assert.Equal(t, http.StatusFound, good.Code)
	assert.Equal(t, "/", good.Header().Get("Location"))

	home := b.get("/")
	assert.Contains(t, home.Body.String(), "Hello, testuser!")

	b.logout()
	login := b.get("/login")
	assert.Contains(t, login.Body.String(), "Successfully logged out")

	anon := b.get("/")
	assert.NotContains(t, anon.Body.String(), "Your timeline")
}

func TestProtectedPagesRedirectAnonymous(t *testing.T) {
	server := newTestServer(t)

	owner := newBrowser(t, server)
	owner.signup("testuser", "testuser@example.com", "password123")
	user := models.Authenticate(server.DB, "testuser", "password123")

	b := newBrowser(t, server)
	for _, target := range []string{
		"/users",
		fmt.Sprintf("/users/%d", user.ID),
		fmt.Sprintf("/users/%d/following", user.ID),
		fmt.Sprintf("/users/%d/followers", user.ID),
		fmt.Sprintf("/users/%d/likes", user.ID),
		"/users/profile",
		"/messages/new",
	} {
		w := b.get(target)
		assert.Equal(t, http.StatusFound, w.Code, target)
		assert.Equal(t, "/", w.Header().Get("Location"), target)
	}

	home := b.get("/")
	assert.Contains(t, home.Body.String(), "Access unauthorized.")
}

func TestFollowAndUnfollowViews(t *testing.T) {
	server := newTestServer(t)

	alice := newBrowser(t, server)
	alice.signup("alice", "alice@example.com", "password123")
	bob := newBrowser(t, server)
	bob.signup("bob", "bob@example.com", "password123")

	aliceUser := models.Authenticate(server.DB, "alice", "password123")
	bobUser := models.Authenticate(server.DB, "bob", "password123")

	w := alice.post(fmt.Sprintf("/users/follow/%d", bobUser.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	following := alice.get(fmt.Sprintf("/users/%d/following", aliceUser.ID))
	assert.Equal(t, http.StatusOK, following.Code)
	assert.Contains(t, following.Body.String(), "@bob")

	// Following twice changes nothing.
	alice.post(fmt.Sprintf("/users/follow/%d", bobUser.ID), nil)
	count, err := aliceUser.CountFollowing(server.DB)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	followers := bob.get(fmt.Sprintf("/users/%d/followers", bobUser.ID))
	assert.Contains(t, followers.Body.String(), "@alice")

	w = alice.post(fmt.Sprintf("/users/stop-following/%d", bobUser.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	count, err = aliceUser.CountFollowing(server.DB)
	assert.NoError(t, err)
	assert.Zero(t, count)
}

func TestSelfFollowBlockedInView(t *testing.T) {
	server := newTestServer(t)

	alice := newBrowser(t, server)
	alice.signup("alice", "alice@example.com", "password123")
	user := models.Authenticate(server.DB, "alice", "password123")

	w := alice.post(fmt.Sprintf("/users/follow/%d", user.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	count, err := user.CountFollowing(server.DB)
	assert.NoError(t, err)
	assert.Zero(t, count)

	profile := alice.get(fmt.Sprintf("/users/%d", user.ID))
	assert.Contains(t, profile.Body.String(), "You cannot follow yourself")
}

func TestMessageViews(t *testing.T) {
	server := newTestServer(t)

	alice := newBrowser(t, server)
	alice.signup("alice", "alice@example.com", "password123")
	aliceUser := models.Authenticate(server.DB, "alice", "password123")

	w := alice.post("/messages/new", url.Values{"text": {"my first warble"}})
	assert.Equal(t, http.StatusFound, w.Code)

	profile := alice.get(fmt.Sprintf("/users/%d", aliceUser.ID))
	assert.Contains(t, profile.Body.String(), "my first warble")

	messages, err := (&models.Message{}).FindMessagesByUser(server.DB, aliceUser.ID)
	assert.NoError(t, err)
	assert.Len(t, messages, 1)

	show := alice.get(fmt.Sprintf("/messages/%d", messages[0].ID))
	assert.Equal(t, http.StatusOK, show.Code)
	assert.Contains(t, show.Body.String(), "my first warble")

	w = alice.post(fmt.Sprintf("/messages/%d/delete", messages[0].ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	remaining, err := (&models.Message{}).FindMessagesByUser(server.DB, aliceUser.ID)
	assert.NoError(t, err)
	assert.Len(t, remaining, 0)
}

func TestDeleteMessageRequiresAuthor(t *testing.T) {
	server := newTestServer(t)

	alice := newBrowser(t, server)
	alice.signup("alice", "alice@example.com", "password123")
	aliceUser := models.Authenticate(server.DB, "alice", "password123")

	message := models.Message{Text: "keep out", UserID: aliceUser.ID}
	_, err := message.SaveMessage(server.DB)
	assert.NoError(t, err)

	bob := newBrowser(t, server)
	bob.signup("bob", "bob@example.com", "password123")

	w := bob.post(fmt.Sprintf("/messages/%d/delete", message.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	_, err = (&models.Message{}).FindMessageByID(server.DB, message.ID)
	assert.NoError(t, err)
}

func TestLikeToggleView(t *testing.T) {
	server := newTestServer(t)

	alice := newBrowser(t, server)
	alice.signup("alice", "alice@example.com", "password123")
	aliceUser := models.Authenticate(server.DB, "alice", "password123")

	message := models.Message{Text: "like this", UserID: aliceUser.ID}
	_, err := message.SaveMessage(server.DB)
	assert.NoError(t, err)

	bob := newBrowser(t, server)
	bob.signup("bob", "bob@example.com", "password123")

	w := bob.post(fmt.Sprintf("/messages/%d/like", message.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	count, err := message.CountLikes(server.DB)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Toggling again removes the like.
	bob.post(fmt.Sprintf("/messages/%d/like", message.ID), nil)
	count, err = message.CountLikes(server.DB)
	assert.NoError(t, err)
	assert.Zero(t, count)

	// Authors cannot like their own messages.
	alice.post(fmt.Sprintf("/messages/%d/like", message.ID), nil)
	ids, err := aliceUser.LikedMessageIDs(server.DB)
	assert.NoError(t, err)
	assert.False(t, ids[message.ID])
}

func TestUserSearchView(t *testing.T) {
	server := newTestServer(t)

	b := newBrowser(t, server)
	b.signup("warblerfan", "fan@example.com", "password123")

	other := newBrowser(t, server)
	other.signup("someoneelse", "else@example.com", "password123")

	w := b.get("/users?q=warbler")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "@warblerfan")
	assert.NotContains(t, w.Body.String(), "@someoneelse")

	none := b.get("/users?q=zzz")
	assert.Contains(t, none.Body.String(), "Sorry, no users found")
}

func TestProfileUpdateRequiresPassword(t *testing.T) {
	server := newTestServer(t)

	b := newBrowser(t, server)
	b.signup("alice", "alice@example.com", "password123")
	user := models.Authenticate(server.DB, "alice", "password123")

	w := b.post("/users/profile", url.Values{
		"username": {"alice2"},
		"email":    {"alice@example.com"},
		"password": {"wrongpassword"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	unchanged, err := (&models.User{}).FindUserByID(server.DB, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "alice", unchanged.Username)

	w = b.post("/users/profile", url.Values{
		"username": {"alice2"},
		"email":    {"alice@example.com"},
		"bio":      {"new bio"},
		"password": {"password123"},
	})
	assert.Equal(t, http.StatusFound, w.Code)

	updated, err := (&models.User{}).FindUserByID(server.DB, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "new bio", updated.Bio)
}

func TestDeleteAccountView(t *testing.T) {
	server := newTestServer(t)

	b := newBrowser(t, server)
	b.signup("alice", "alice@example.com", "password123")
	user := models.Authenticate(server.DB, "alice", "password123")

	w := b.post("/users/delete", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/signup", w.Header().Get("Location"))

	_, err := (&models.User{}).FindUserByID(server.DB, user.ID)
	assert.Error(t, err)

	// The session is gone too.
	redirected := b.get("/messages/new")
	assert.Equal(t, http.StatusFound, redirected.Code)
}
