package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"warbler/api/middlewares"
	"warbler/api/models"
	"warbler/api/security"
	"warbler/api/utils/fileformat"
	"warbler/api/utils/formaterror"
	"warbler/api/utils/httpctx"

	aws2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
)

const maxAvatarBytes = 512_000

// ListUsers shows all users, or the ones whose username contains the
// q parameter when a search was submitted.
func (server *Server) ListUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	var (
		users *[]models.User
		err   error
	)
	if query == "" {
		users, err = (&models.User{}).FindAllUsers(server.DB)
	} else {
		users, err = (&models.User{}).SearchUsers(server.DB, query)
	}
	if err != nil {
		server.Logger.WithError(err).Error("Could not list users")
		server.render(c, http.StatusInternalServerError, "users_index.html", gin.H{
			"Users": []models.User{},
			"Query": query,
		})
		return
	}

	server.Metrics.CountSuccess(c.FullPath())
	server.render(c, http.StatusOK, "users_index.html", gin.H{
		"Users": *users,
		"Query": query,
	})
}

func (server *Server) lookupUser(c *gin.Context) (*models.User, bool) {
	uid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return nil, false
	}
	user, err := (&models.User{}).FindUserByID(server.DB, uint(uid))
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusNotFound, "not_found.html", nil)
		return nil, false
	}
	return user, true
}

// ShowUser renders a user's profile page with their messages, newest
// first, plus follower and like counts.
func (server *Server) ShowUser(c *gin.Context) {
	user, ok := server.lookupUser(c)
	if !ok {
		return
	}

	messages, err := (&models.Message{}).FindMessagesByUser(server.DB, user.ID)
	if err != nil {
		server.Logger.WithError(err).Error("Could not load messages")
		messages = []models.Message{}
	}

	data := gin.H{
		"User":     user,
		"Messages": messages,
	}

	if viewer, signedIn := httpctx.CurrentUser(c); signedIn {
		following, err := viewer.IsFollowing(server.DB, user)
		if err == nil {
			data["ViewerFollows"] = following
		}
		liked, err := viewer.LikedMessageIDs(server.DB)
		if err == nil {
			data["Liked"] = liked
		}
	}

	if n, err := user.CountFollowing(server.DB); err == nil {
		data["FollowingCount"] = n
	}
	if n, err := user.CountFollowers(server.DB); err == nil {
		data["FollowersCount"] = n
	}
	if likes, err := user.MessagesLiked(server.DB); err == nil {
		data["LikesCount"] = len(likes)
	}

	server.Metrics.CountSuccess(c.FullPath())
	server.render(c, http.StatusOK, "users_show.html", data)
}

func (server *Server) ShowFollowing(c *gin.Context) {
	user, ok := server.lookupUser(c)
	if !ok {
		return
	}

	following, err := user.Following(server.DB)
	if err != nil {
		server.Logger.WithError(err).Error("Could not load following")
		following = []models.User{}
	}

	server.render(c, http.StatusOK, "following.html", gin.H{
		"User":  user,
		"Users": following,
	})
}

func (server *Server) ShowFollowers(c *gin.Context) {
	user, ok := server.lookupUser(c)
	if !ok {
		return
	}

	followers, err := user.Followers(server.DB)
	if err != nil {
		server.Logger.WithError(err).Error("Could not load followers")
		followers = []models.User{}
	}

	server.render(c, http.StatusOK, "followers.html", gin.H{
		"User":  user,
		"Users": followers,
	})
}

// ShowLikes lists the messages a user has liked.
func (server *Server) ShowLikes(c *gin.Context) {
	user, ok := server.lookupUser(c)
	if !ok {
		return
	}

	messages, err := user.MessagesLiked(server.DB)
	if err != nil {
		server.Logger.WithError(err).Error("Could not load liked messages")
		messages = []models.Message{}
	}

	data := gin.H{
		"User":     user,
		"Messages": messages,
	}
	if viewer, signedIn := httpctx.CurrentUser(c); signedIn {
		if liked, err := viewer.LikedMessageIDs(server.DB); err == nil {
			data["Liked"] = liked
		}
	}

	server.render(c, http.StatusOK, "likes.html", data)
}

func (server *Server) ProfileForm(c *gin.Context) {
	user, _ := httpctx.CurrentUser(c)
	server.render(c, http.StatusOK, "profile.html", gin.H{"User": user})
}

// UpdateProfile edits the signed-in user's profile. The form requires
// the current password; a wrong one flashes and redirects home.
func (server *Server) UpdateProfile(c *gin.Context) {
	user, _ := httpctx.CurrentUser(c)

	password := c.PostForm("password")
	if err := security.VerifyPassword(user.Password, password); err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.flash(c, "Invalid credentials.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	updated := models.User{
		Username:       strings.TrimSpace(c.PostForm("username")),
		Email:          strings.TrimSpace(c.PostForm("email")),
		ImageURL:       strings.TrimSpace(c.PostForm("image_url")),
		HeaderImageURL: strings.TrimSpace(c.PostForm("header_image_url")),
		Bio:            strings.TrimSpace(c.PostForm("bio")),
		Location:       strings.TrimSpace(c.PostForm("location")),
	}

	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		url, uploadErr := server.uploadAvatar(file)
		if uploadErr != nil {
			server.Logger.WithError(uploadErr).Error("Avatar upload failed")
			server.flash(c, "Could not upload image")
			c.Redirect(http.StatusFound, "/users/profile")
			return
		}
		updated.ImageURL = url
	}

	updated.Prepare()
	if errs := updated.Validate("update"); len(errs) > 0 {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusOK, "profile.html", gin.H{
			"User":   user,
			"Errors": errs,
		})
		return
	}

	saved, err := updated.UpdateAUser(server.DB, user.ID)
	if err != nil {
		server.Metrics.CountBadRequest(c.FullPath())
		server.render(c, http.StatusOK, "profile.html", gin.H{
			"User":   user,
			"Errors": formaterror.FormatError(err.Error()),
		})
		return
	}

	server.Metrics.CountSuccess(c.FullPath())
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", saved.ID))
}

// DeleteUser removes the signed-in user's account and everything
// hanging off it, then ends the session.
func (server *Server) DeleteUser(c *gin.Context) {
	user, _ := httpctx.CurrentUser(c)

	if _, err := user.DeleteAUser(server.DB, user.ID); err != nil {
		server.Logger.WithError(err).Error("Could not delete account")
		server.flash(c, "Could not delete account")
		c.Redirect(http.StatusFound, "/")
		return
	}

	session := server.session(c)
	delete(session.Values, middlewares.SessionUserKey)
	if err := session.Save(c.Request, c.Writer); err != nil {
		server.Logger.WithError(err).Warn("Could not save session")
	}
	c.Redirect(http.StatusFound, "/signup")
}

// readUpload pulls the whole upload into memory and sniffs its type.
// io.ReadFull guards against a short read truncating the object.
func readUpload(file *multipart.FileHeader) ([]byte, string, error) {
	f, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	if file.Size > maxAvatarBytes {
		return nil, "", fmt.Errorf("file too large (<500KB)")
	}

	buf := make([]byte, file.Size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, "", err
	}
	fileType := http.DetectContentType(buf)
	if !strings.HasPrefix(fileType, "image/") {
		return nil, "", fmt.Errorf("not an image")
	}
	return buf, fileType, nil
}

func (server *Server) uploadAvatar(file *multipart.FileHeader) (string, error) {
	buf, fileType, err := readUpload(file)
	if err != nil {
		return "", err
	}

	key := "UserProfilePics/" + fileformat.UniqueFormat(file.Filename)

	rawBucket := os.Getenv("S3_BUCKET")
	bucketName := strings.SplitN(rawBucket, "/", 2)[0]
	if bucketName == "" {
		return "", fmt.Errorf("S3_BUCKET env var is empty or invalid: %q", rawBucket)
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	cfg, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return "", err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:        aws2.String(bucketName),
		Key:           aws2.String(key),
		Body:          bytes.NewReader(buf),
		ContentLength: aws2.Int64(int64(len(buf))),
		ContentType:   aws2.String(fileType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, region, key), nil
}
