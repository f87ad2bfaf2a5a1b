package tokenauth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Login,
			controller.LoginPost,
		).
		SetName("auth.login.post")

	app.
		Post(controller.Routes.Register,
			controller.RegistrationCreate,
		).
		SetName("auth.register.post")

	app.
		Post(controller.Routes.Refresh,
			controller.RefreshPost,
		).
		SetName("auth.refresh.post")

	app.
		Post(controller.Routes.Logout,
			controller.LogOut,
		).
		SetName("auth.logout.post")
}

type AuthControllerRoutes struct {
	Login    string
	Logout   string
	Register string
	Refresh  string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       HTTPAuthenticator
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			Login:    "/api/auth/login",
			Logout:   "/api/auth/logout",
			Register: "/api/auth/register",
			Refresh:  "/api/auth/refresh",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Email
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"status":  "fail",
			"message": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"status":  "fail",
			"message": err.Error(),
			"errors":  FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	return a.login(ctx, payload)
}

func (a *AuthController) login(ctx router.Context, payload LoginPayload) error {
	pair, err := a.Auther.Login(ctx, payload)
	if err != nil {
		if IsAuthError(err) {
			return ctx.JSON(fiber.StatusUnauthorized, map[string]any{
				"status":  "fail",
				"message": ErrMismatchedHashAndPassword.Message,
			})
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"status":        "success",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// RefreshPost exchanges the refresh_token cookie for a new pair. A missing
// cookie is the same 401 as an invalid one. POST only: a successful exchange
// rotates the session cookies.
func (a *AuthController) RefreshPost(ctx router.Context) error {
	refreshToken := ctx.Cookies(RefreshTokenCookie)
	if refreshToken == "" {
		return a.unauthorized(ctx, ErrMissingCredentials)
	}

	pair, err := a.Auther.Refresh(ctx, refreshToken)
	if err != nil {
		if IsAuthError(err) || IsTokenExpiredError(err) || IsMalformedError(err) {
			return a.unauthorized(ctx, err)
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"status":        "success",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (a *AuthController) LogOut(ctx router.Context) error {
	a.Auther.Logout(ctx)
	return ctx.JSON(fiber.StatusOK, map[string]any{
		"status": "success",
	})
}

// RegistrationCreatePayload is the registration payload
type RegistrationCreatePayload struct {
	Name              string `form:"name" json:"name"`
	Username          string `form:"username" json:"username"`
	Email             string `form:"email" json:"email"`
	Password          string `form:"password" json:"password"`
	ConfirmPassword   string `form:"confirm_password" json:"confirm_password"`
	PreferredPlatform string `form:"preferred_platform" json:"preferred_platform"`
	Photo             string `form:"photo" json:"photo"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(8, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
		validation.Field(&r.PreferredPlatform, validation.In(
			PlatformSpotify,
			PlatformAppleMusic,
			PlatformSoundCloud,
			PlatformYoutubeMusic,
			PlatformAmazonMusic,
			PlatformTidal,
		)),
	)
}

// FilteredUser is the registration response shape, password hash excluded
type FilteredUser struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	PreferredPlatform string `json:"preferred_platform,omitempty"`
	Photo             string `json:"photo,omitempty"`
}

func NewFilteredUser(user *User) FilteredUser {
	return FilteredUser{
		ID:                user.ID.String(),
		Name:              user.Name,
		Username:          user.Username,
		Email:             user.Email,
		PreferredPlatform: user.PreferredPlatform,
		Photo:             user.ProfilePicture,
	}
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"status":  "fail",
			"message": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"status":  "fail",
			"message": err.Error(),
			"errors":  FormatValidationErrorToMap(err),
		})
	}

	return a.register(ctx, payload)
}

func (a *AuthController) register(ctx router.Context, payload *RegistrationCreatePayload) error {
	var record *User

	req := RegisterUserMessage{
		Name:              payload.Name,
		Username:          payload.Username,
		Email:             payload.Email,
		Password:          payload.Password,
		PreferredPlatform: payload.PreferredPlatform,
		Photo:             payload.Photo,
		OnResponse: func(u *User) {
			record = u
		},
	}

	registerUser := RegisterUserHandler{repo: a.Repo}
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("register user error: ", "error", err)
		return ctx.JSON(fiber.StatusConflict, map[string]any{
			"status":  "fail",
			"message": "User with that email already exists",
		})
	}

	return ctx.JSON(fiber.StatusCreated, map[string]any{
		"status": "success",
		"data": map[string]any{
			"user": NewFilteredUser(record),
		},
	})
}

func (a *AuthController) unauthorized(ctx router.Context, err error) error {
	a.Logger.Info("unauthorized request", "path", ctx.Path(), "error", err)
	return ctx.JSON(fiber.StatusUnauthorized, map[string]any{
		"status":  "fail",
		"message": authFailureMessage(err),
	})
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return validation.NewError("validation_match", "values must match")
		}
		return nil
	}
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field to message map
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if errs, ok := err.(validation.Errors); ok {
		for field, ferr := range errs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["form"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	return c.JSON(fiber.StatusInternalServerError, map[string]any{
		"status":  "error",
		"message": err.Error(),
	})
}
