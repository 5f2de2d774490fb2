package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"warbler/api/mailer"
	"warbler/api/metrics"
	"warbler/api/middlewares"
	"warbler/api/models"
	"warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Sessions *sessions.CookieStore
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger
	Mailer   mailer.Mailer
}

// ===============================
// SERVER INITIALIZATION
// ===============================
func (server *Server) Initialize(DbUser, DbPassword, DbPort, DbHost, DbName string) {
	var dsn string

	if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		dsn = os.Getenv("DATABASE_URL")
		if dsn != "" && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
	} else {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			DbHost, DbUser, DbPassword, DbName, DbPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Cannot connect to Postgres: %v", err)
	}

	server.Metrics = metrics.Init()
	server.Mailer = mailer.NewSendGridMailer()
	server.Bootstrap(db, "api/templates/*.html", true)
}

// Bootstrap wires the router, session store, logging and routes onto an
// already opened database handle. Tests call it directly with an
// in-memory sqlite database and rate limiting turned off.
func (server *Server) Bootstrap(db *gorm.DB, templateGlob string, withRateLimit bool) {
	server.DB = db

	if err := server.DB.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
		&models.PasswordReset{},
	); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	if server.Logger == nil {
		server.Logger = logrus.New()
		server.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		sessionKey = "dev-only-insecure-session-key"
	}
	server.Sessions = sessions.NewCookieStore([]byte(sessionKey))
	server.Sessions.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 16,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}

	server.Router = gin.Default()
	server.Router.Use(middlewares.RequestLogger(server.Logger))
	server.Router.Use(middlewares.CSRFProtection(os.Getenv("CSRF_ENABLED") == "true"))
	if withRateLimit {
		server.Router.Use(middlewares.RateLimitMiddleware())
	}
	server.Router.Use(middlewares.CurrentUserMiddleware(server.DB, server.Sessions))

	server.Router.SetFuncMap(templateFuncs())
	server.Router.LoadHTMLGlob(templateGlob)
	server.Router.Static("/static", "api/static")

	server.initializeRoutes(withRateLimit)
	server.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (server *Server) Run(addr string) {
	log.Fatal(http.ListenAndServe(addr, server.Router))
}

// session returns the request's session, falling back to a fresh one on
// a decode failure so a stale cookie never breaks the page.
func (server *Server) session(c *gin.Context) *sessions.Session {
	session, _ := server.Sessions.Get(c.Request, middlewares.SessionName)
	return session
}

func (server *Server) flash(c *gin.Context, message string) {
	session := server.session(c)
	session.AddFlash(message)
	if err := session.Save(c.Request, c.Writer); err != nil {
		server.Logger.WithError(err).Warn("Could not save session")
	}
}

// render draws an HTML template with the flashes and the signed-in user
// merged into the template data.
func (server *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}

	session := server.session(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		if err := session.Save(c.Request, c.Writer); err != nil {
			server.Logger.WithError(err).Warn("Could not clear flashes")
		}
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	data["Flashes"] = messages

	if user, ok := httpctx.CurrentUser(c); ok {
		data["CurrentUser"] = user
	}

	c.HTML(status, name, data)
}

func (server *Server) signIn(c *gin.Context, user *models.User) error {
	session := server.session(c)
	session.Values[middlewares.SessionUserKey] = user.ID
	session.AddFlash(fmt.Sprintf("Hello, %s!", user.Username))
	return session.Save(c.Request, c.Writer)
}

func (server *Server) signOut(c *gin.Context) error {
	session := server.session(c)
	delete(session.Values, middlewares.SessionUserKey)
	session.AddFlash("Successfully logged out")
	return session.Save(c.Request, c.Writer)
}
