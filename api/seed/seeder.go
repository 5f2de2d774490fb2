package seed

import (
	"log"

	"warbler/api/models"

	"gorm.io/gorm"
)

type seedUser struct {
	Username, Email, Bio, Location string
}

var seedUsers = []seedUser{
	{
		Username: "tuckerdiane",
		Email:    "tuckerdiane@example.com",
		Bio:      "Ground squab chicken broth.",
		Location: "Port Joshua",
	},
	{
		Username: "wturner",
		Email:    "wturner@example.com",
		Bio:      "Along mention level recent.",
		Location: "Ibarrafurt",
	},
	{
		Username: "dramirez",
		Email:    "dramirez@example.com",
		Bio:      "Tree out-of-the-box recently.",
		Location: "Lake Jocelyn",
	},
}

var messages = []models.Message{
	{Text: "Just tried the new coffee place on 5th. Worth the queue."},
	{Text: "Reading about consensus protocols again. Send help."},
	{Text: "The sunset tonight was something else."},
}

// Load drops and recreates the schema, then fills it with a handful of
// users, messages and a small follow and like graph for local
// development.
func Load(db *gorm.DB) {
	err := db.Migrator().DropTable(
		&models.Like{},
		&models.Follow{},
		&models.Message{},
		&models.PasswordReset{},
		&models.User{},
	)
	if err != nil {
		log.Fatalf("cannot drop table: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
		&models.PasswordReset{},
	)
	if err != nil {
		log.Fatalf("cannot migrate table: %v", err)
	}

	users := make([]*models.User, len(seedUsers))
	for i, su := range seedUsers {
		user, err := models.Signup(su.Username, su.Email, "password", "")
		if err != nil {
			log.Fatalf("cannot hash seed password: %v", err)
		}
		user.Bio = su.Bio
		user.Location = su.Location
		if _, err := user.SaveUser(db); err != nil {
			log.Fatalf("cannot seed users table: %v", err)
		}
		users[i] = user
		messages[i].UserID = user.ID

		if _, err := messages[i].SaveMessage(db); err != nil {
			log.Fatalf("cannot seed messages table: %v", err)
		}
	}

	follows := []models.Follow{
		{FollowerID: users[0].ID, FollowedID: users[1].ID},
		{FollowerID: users[1].ID, FollowedID: users[0].ID},
		{FollowerID: users[2].ID, FollowedID: users[0].ID},
	}
	for i := range follows {
		if _, err := follows[i].SaveFollow(db); err != nil {
			log.Fatalf("cannot seed follows table: %v", err)
		}
	}

	likes := []models.Like{
		{UserID: users[0].ID, MessageID: messages[1].ID},
		{UserID: users[1].ID, MessageID: messages[0].ID},
		{UserID: users[2].ID, MessageID: messages[0].ID},
	}
	for i := range likes {
		if _, err := likes[i].SaveLike(db); err != nil {
			log.Fatalf("cannot seed likes table: %v", err)
		}
	}
}
