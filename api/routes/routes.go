package routes

import (
	"net/http"
	"time"

	"codebox/api/handler"
	"codebox/api/middleware"
	"codebox/internal/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Users          *handler.UserHandler
	Reset          *handler.ResetHandler
	Snippets       *handler.SnippetHandler
	AuthMiddleware middleware.AuthMiddleware
	UserFinder     middleware.ActiveUserFinder
	UploadDir      string
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	users *handler.UserHandler,
	reset *handler.ResetHandler,
	snippets *handler.SnippetHandler,
	authMiddleware middleware.AuthMiddleware,
	finder middleware.ActiveUserFinder,
	uploadDir string,
) *Router {
	return &Router{
		Echo:           e,
		Users:          users,
		Reset:          reset,
		Snippets:       snippets,
		AuthMiddleware: authMiddleware,
		UserFinder:     finder,
		UploadDir:      uploadDir,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, "Home GET Request")
	})
	if r.UploadDir != "" {
		e.Static("/uploads", r.UploadDir)
	}

	api := e.Group("/api")
	auth := r.AuthMiddleware.RequireAuth
	verify := middleware.VerifyUser(r.UserFinder)
	admin := middleware.RequireRole(string(entity.UserRoleAdmin))

	api.POST("/signup", r.Users.Register, r.AuthRate.Middleware())
	api.POST("/signupMail", r.Users.RegisterMail, r.AuthRate.Middleware())
	api.GET("/authenticate", r.Users.Authenticate, verify)
	api.POST("/authenticate", r.Users.Authenticate, verify)
	api.POST("/login", r.Users.Login, r.LoginRate.Middleware(), verify)

	api.GET("/getAllUsers", r.Users.ListUsers)
	api.GET("/getAllDeletedUsers", r.Users.ListDeletedUsers, auth, admin)
	api.GET("/getUsersCount", r.Users.CountUsers)
	api.GET("/getDeletedUsersCount", r.Users.CountDeletedUsers, auth, admin)
	api.GET("/getUserById/:id", r.Users.GetUserByID)
	api.GET("/user/:emailOrUsername", r.Users.GetUser)
	api.GET("/generateOTP", r.Reset.GenerateOTP, r.LoginRate.Middleware(), verify)
	api.GET("/verifyOTP", r.Reset.VerifyOTP, r.LoginRate.Middleware(), verify)
	api.GET("/createResetSession", r.Reset.CreateResetSession)

	api.PATCH("/deleteUser", r.Users.DeleteUser, auth)
	api.PATCH("/revertDeletedUser", r.Users.RevertDeletedUser, auth)
	api.PATCH("/updateUser", r.Users.UpdateUser, auth)
	api.PATCH("/resetPassword", r.Reset.ResetPassword, r.AuthRate.Middleware(), verify)

	api.POST("/createCode", r.Snippets.CreateCode, auth)
	api.GET("/getAllCodes", r.Snippets.GetAllCodes, auth)
	api.GET("/getOnlyDeletedCodesByUsername", r.Snippets.GetOnlyDeletedCodesByUsername, auth, admin)
	api.GET("/getCodeById", r.Snippets.GetCodeByID, auth)
	api.GET("/getCodesByUserId", r.Snippets.GetCodesByUserID, auth)
	api.GET("/getAllCodesByUsername", r.Snippets.GetAllCodesByUsername)

	api.PATCH("/updateCode", r.Snippets.UpdateCode, auth)
	api.PATCH("/revertDeletedCode", r.Snippets.RevertDeletedCode, auth)
	// Deletion is a soft delete, hence PATCH.
	api.PATCH("/deleteCode", r.Snippets.DeleteCode, auth)
}
