package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/auth"
)

type authApi struct {
	issuer   tokenIssuer
	sessions *auth.SessionRegistry
	validate *validator.Validate
}

func registerAuthAPI(
	g *echo.Group,
	issuer tokenIssuer,
	sessions *auth.SessionRegistry,
	validate *validator.Validate,
	authMiddlewares ...echo.MiddlewareFunc,
) {
	api := authApi{
		issuer:   issuer,
		sessions: sessions,
		validate: validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)

	// authed endpoints
	lg := ag.Group("", authMiddlewares...)
	lg.POST("/logout", api.logout)
	lg.GET("/me", api.me)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sid, id, err := api.sessions.Open(data.Username, data.Password, data.Role)
	if err != nil {
		if auth.IsAuthError(err) {
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := api.issuer.generateToken(api.issuer.claims(sid, id))
	if err != nil {
		_ = api.sessions.Close(sid)
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Identity: id})
}

func (api *authApi) logout(ctx echo.Context) error {
	sid, _ := ctx.Get(contextSessionKey).(string)
	if err := api.sessions.Close(sid); err != nil {
		return errSessionClosed
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) me(ctx echo.Context) error {
	id, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, id)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required,notblank"`
		Password string `json:"password" validate:"required"`
		Role     string `json:"role" validate:"required,role"`
	}

	LoginResponse struct {
		Token    string        `json:"token"`
		Identity auth.Identity `json:"identity"`
	}
)

// Validate trims the username; usernames and passwords are case-sensitive.
func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username)
	return validate.Struct(lr)
}
