package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacthub/internal/handlers"
	midauth "github.com/contacthub/contacthub/internal/middleware/auth"
)

type Deps struct {
	Guard          *midauth.Guard
	AuthHandler    *handlers.AuthHandler
	ContactHandler *handlers.ContactHandler
	UserHandler    *handlers.UserHandler
	UploadHandler  *handlers.UploadHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/token/refresh", d.AuthHandler.Refresh)

	contacts := e.Group("/contacts", d.Guard.RequireLogin)
	contacts.GET("", d.ContactHandler.List)
	contacts.GET("/search", d.SearchHandler.Search)
	contacts.GET("/:id", d.ContactHandler.Get)
	contacts.POST("", d.ContactHandler.Create)
	contacts.PUT("/:id", d.ContactHandler.Update)
	contacts.DELETE("/:id", d.ContactHandler.Delete)

	user := e.Group("/user", d.Guard.RequireLogin)
	user.GET("/me", d.UserHandler.Me)
	user.PUT("", d.UserHandler.Update)

	file := e.Group("/file", d.Guard.RequireLogin)
	file.POST("/upload", d.UploadHandler.Upload)
}
