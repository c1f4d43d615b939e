package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"codebox/internal/dto"
	"codebox/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ImageUploader stores an uploaded profile image and returns its path.
type ImageUploader interface {
	Save(header *multipart.FileHeader) (string, error)
}

type UserHandler struct {
	Service  *service.UserService
	Validate *validator.Validate
	Uploads  ImageUploader
}

func NewUserHandler(svc *service.UserService, validate *validator.Validate, uploads ImageUploader) *UserHandler {
	return &UserHandler{
		Service:  svc,
		Validate: validate,
		Uploads:  uploads,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	profile, err := h.saveProfile(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	user, err := h.Service.Register(c.Request().Context(), service.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		ProfilePath:  profile,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "User Register Successfully",
		"result":  dto.UserResponseFromEntity(user),
	})
}

func (h *UserHandler) RegisterMail(c echo.Context) error {
	var req dto.RegisterMailRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	err := h.Service.SendRegistrationMail(c.Request().Context(), service.RegistrationMail{
		Username: req.Username,
		To:       req.UserEmail,
		Subject:  req.Subject,
		Text:     req.Text,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "You should receive an email from us."})
}

// Authenticate only answers once VerifyUser has accepted the identifier.
func (h *UserHandler) Authenticate(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *UserHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.Login(c.Request().Context(), service.LoginInput{
		EmailOrUsername: req.EmailOrUsername,
		Password:        req.Password,
		IPAddress:       stringPtr(c.RealIP()),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LoginResponse{
		Message:  "Login Successful...!",
		Email:    result.Email,
		Username: result.Username,
		Role:     string(result.Role),
		Token:    result.Token,
	})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.Service.GetUser(c.Request().Context(), c.Param("emailOrUsername"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "User Found",
		"others":  dto.UserResponseFromEntity(user),
	})
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	user, err := h.Service.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	return h.list(c, true, "All Users")
}

func (h *UserHandler) ListDeletedUsers(c echo.Context) error {
	return h.list(c, false, "All Deleted Users")
}

func (h *UserHandler) list(c echo.Context, activeOnly bool, message string) error {
	users, err := h.Service.ListUsers(c.Request().Context(), activeOnly)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": message,
		"users":   dto.UserResponsesFromEntities(users),
	})
}

func (h *UserHandler) CountUsers(c echo.Context) error {
	return h.count(c, true)
}

func (h *UserHandler) CountDeletedUsers(c echo.Context) error {
	return h.count(c, false)
}

func (h *UserHandler) count(c echo.Context, activeOnly bool) error {
	count, err := h.Service.CountUsers(c.Request().Context(), activeOnly)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"usersCount": count})
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	user, err := h.Service.SoftDeleteUser(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":         "User soft-deleted successfully",
		"updatedUserData": dto.UserResponseFromEntity(user),
	})
}

func (h *UserHandler) RevertDeletedUser(c echo.Context) error {
	user, err := h.Service.RevertUser(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":         "User reverted successfully",
		"updatedUserData": dto.UserResponseFromEntity(user),
	})
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User ID not provided...!"})
	}
	req, err := h.readUpdate(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	profile, err := h.saveProfile(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	user, err := h.Service.UpdateUser(c.Request().Context(), id, req.ToEntity(), profile)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Record Updated...!",
		"user":    dto.UserResponseFromEntity(user),
	})
}

// readUpdate accepts only the whitelisted profile fields. JSON bodies with
// other fields are rejected; extra form fields are ignored.
func (h *UserHandler) readUpdate(c echo.Context) (dto.UpdateUserRequest, error) {
	var req dto.UpdateUserRequest
	if !isMultipart(c) && !isForm(c) {
		err := decodeJSON(c, &req)
		return req, err
	}
	params, err := c.FormParams()
	if err != nil {
		return req, err
	}
	field := func(name string) *string {
		if values, ok := params[name]; ok && len(values) > 0 {
			value := values[0]
			return &value
		}
		return nil
	}
	req.FirstName = field("firstName")
	req.LastName = field("lastName")
	req.MobileNumber = field("mobileNumber")
	req.Email = field("email")
	return req, nil
}

func (h *UserHandler) saveProfile(c echo.Context) (string, error) {
	if !isMultipart(c) || h.Uploads == nil {
		return "", nil
	}
	header, err := c.FormFile("profile")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return h.Uploads.Save(header)
}

func (h *UserHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
