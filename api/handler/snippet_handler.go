package handler

import (
	"net/http"

	"codebox/api/middleware"
	"codebox/internal/dto"
	"codebox/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type SnippetHandler struct {
	Service  *service.SnippetService
	Validate *validator.Validate
}

func NewSnippetHandler(svc *service.SnippetService, validate *validator.Validate) *SnippetHandler {
	return &SnippetHandler{Service: svc, Validate: validate}
}

func (h *SnippetHandler) CreateCode(c echo.Context) error {
	var req dto.CreateSnippetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	ownerID := c.QueryParam("id")
	if ownerID == "" {
		ownerID, _ = middleware.UserIDFromContext(c)
	}
	username := req.Username
	if claims, ok := middleware.ClaimsFromContext(c); ok && username == "" {
		username = claims.Username
	}
	snippet, err := h.Service.Create(c.Request().Context(), service.CreateSnippetInput{
		OwnerUserID:   ownerID,
		OwnerUsername: username,
		Code:          req.Code,
		CodeLanguage:  req.CodeLanguage,
		Title:         req.Title,
		Description:   req.Description,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"userCode": dto.SnippetResponseFromEntity(snippet)})
}

func (h *SnippetHandler) GetAllCodes(c echo.Context) error {
	snippets, err := h.Service.List(c.Request().Context(), true)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"userCodes": dto.SnippetResponsesFromEntities(snippets)})
}

func (h *SnippetHandler) GetAllCodesByUsername(c echo.Context) error {
	return h.grouped(c, true)
}

func (h *SnippetHandler) GetOnlyDeletedCodesByUsername(c echo.Context) error {
	return h.grouped(c, false)
}

func (h *SnippetHandler) grouped(c echo.Context, activeOnly bool) error {
	groups, err := h.Service.ListGroupedByOwner(c.Request().Context(), activeOnly)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make(dto.GroupedSnippets, 0, len(groups))
	for _, group := range groups {
		response = append(response, dto.SnippetGroup{
			Username: group.Username,
			Snippets: dto.SnippetResponsesFromEntities(group.Snippets),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"codesByUser": response})
}

func (h *SnippetHandler) GetCodeByID(c echo.Context) error {
	snippet, err := h.Service.GetByID(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"userCode": dto.SnippetResponsePtr(snippet)})
}

func (h *SnippetHandler) GetCodesByUserID(c echo.Context) error {
	snippets, err := h.Service.ListByOwner(c.Request().Context(), c.QueryParam("id"), true, true)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"userCodes": dto.SnippetResponsesFromEntities(snippets)})
}

func (h *SnippetHandler) UpdateCode(c echo.Context) error {
	var req dto.UpdateSnippetRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	snippet, err := h.Service.Update(c.Request().Context(), c.QueryParam("id"), req.ToEntity())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"userCode": dto.SnippetResponseFromEntity(snippet)})
}

func (h *SnippetHandler) DeleteCode(c echo.Context) error {
	snippet, err := h.Service.SoftDelete(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"deleteCode": dto.SnippetResponsePtr(snippet)})
}

func (h *SnippetHandler) RevertDeletedCode(c echo.Context) error {
	snippet, err := h.Service.Revert(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"revertDeletedCode": dto.SnippetResponsePtr(snippet)})
}

func (h *SnippetHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
