package controllers

import (
	"warbler/api/middlewares"
)

func (s *Server) initializeRoutes(withRateLimit bool) {

	s.Router.GET("/", s.Home)

	s.Router.GET("/signup", s.SignupForm)
	s.Router.POST("/signup", s.Signup)
	s.Router.GET("/login", s.LoginForm)
	if withRateLimit {
		s.Router.POST("/login", middlewares.LoginRateLimitMiddleware(), s.Login)
	} else {
		s.Router.POST("/login", s.Login)
	}
	s.Router.POST("/logout", s.Logout)

	s.Router.GET("/password/forgot", s.ForgotPasswordForm)
	s.Router.POST("/password/forgot", s.ForgotPassword)
	s.Router.GET("/password/reset", s.ResetPasswordForm)
	s.Router.POST("/password/reset", s.ResetPassword)

	auth := s.Router.Group("/", middlewares.RequireLogin(s.Sessions))
	{
		auth.GET("/users", s.ListUsers)
		auth.GET("/users/:id", s.ShowUser)
		auth.GET("/users/:id/following", s.ShowFollowing)
		auth.GET("/users/:id/followers", s.ShowFollowers)
		auth.GET("/users/:id/likes", s.ShowLikes)
		auth.POST("/users/follow/:id", s.FollowUser)
		auth.POST("/users/stop-following/:id", s.StopFollowing)
		auth.GET("/users/profile", s.ProfileForm)
		auth.POST("/users/profile", s.UpdateProfile)
		auth.POST("/users/delete", s.DeleteUser)

		auth.GET("/messages/new", s.NewMessageForm)
		auth.POST("/messages/new", s.CreateMessage)
		auth.POST("/messages/:id/delete", s.DeleteMessage)
		auth.POST("/messages/:id/like", s.ToggleLike)
	}

	s.Router.GET("/messages/:id", s.ShowMessage)
}
