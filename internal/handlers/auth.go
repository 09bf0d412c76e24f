package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/quotesmgmt/quotes-api/internal/config"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"github.com/quotesmgmt/quotes-api/internal/utils"
	"github.com/quotesmgmt/quotes-api/internal/validation"
	"gorm.io/gorm"
)

// AuthHandler handles sign-up and sign-in routes
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

type signInRequest struct {
	Username string `json:"username"` // the email used at sign-up
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	UserID      string `json:"userId"`
}

// SignUp handles POST /auth/sign-up
// @Summary Register a new user
// @Description Create an account. The email doubles as the sign-in user name.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.CreateUserInput true "User details"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var in services.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}

	messages := validation.Struct(in)
	if in.Password != "" {
		messages = append(messages, validation.Password(in.Password)...)
	}
	if len(messages) > 0 {
		return utils.ValidationErrorResponse(c, messages)
	}

	user, err := services.CreateUser(h.DB, in)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return utils.ErrorResponse(c,
				"User with Email: "+in.Email+" already exists",
				fiber.StatusConflict, "auth.conflict.email")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "signUp")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// SignIn handles POST /auth/sign-in
// @Summary Sign in
// @Description Verify credentials and issue a bearer token. For the username, provide the email used during sign-up.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body signInRequest true "Credentials"
// @Success 200 {object} signInResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var in signInRequest
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}
	if in.Username == "" || in.Password == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}

	user, err := services.ValidateUser(h.DB, h.Cfg, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return utils.UnauthorizedResponse(c, "Invalid email or password.")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "signIn")
	}

	token, err := services.IssueToken(h.Cfg, user)
	if err != nil {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "signIn")
	}

	return c.Status(fiber.StatusOK).JSON(signInResponse{
		AccessToken: token,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		UserID:      user.ID,
	})
}
