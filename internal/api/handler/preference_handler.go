package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/newsfeed/newsfeed-api/internal/core/domain"
	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

type PreferenceHandler struct {
	prefs ports.PreferenceService
}

func NewPreferenceHandler(prefs ports.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// Get returns the caller's preferences.
//
// @Summary      Get preferences
// @Tags         users
// @Produce      json
// @Security     SessionToken
// @Success      200  {object}  preferencesResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/preferences [get]
func (h *PreferenceHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	prefs, err := h.prefs.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preferencesResponse{Preferences: prefs})
}

// Update applies a partial update to the caller's preferences. Fields that
// are absent or null are left unchanged.
//
// @Summary      Update preferences
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        body  body      preferencesRequest  true  "Fields to change"
// @Success      200   {object}  preferencesResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/preferences [put]
func (h *PreferenceHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	patch, err := decodePatch(c.Request().Body)
	if err != nil {
		return err
	}

	prefs, err := h.prefs.Update(c.Request().Context(), userID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preferencesResponse{Preferences: prefs})
}

// decodePatch decodes body strictly by JSON type. A value of the wrong type
// is reported against the offending field. An empty body is an empty patch;
// anything after the object is rejected.
func decodePatch(body io.Reader) (domain.PreferencesPatch, error) {
	var patch domain.PreferencesPatch
	dec := json.NewDecoder(body)
	err := dec.Decode(&patch)
	if errors.Is(err, io.EOF) {
		return patch, nil
	}
	if err == nil {
		if dec.Decode(&struct{}{}) != io.EOF {
			return domain.PreferencesPatch{}, fmt.Errorf("%w: invalid payload", domain.ErrValidation)
		}
		return patch, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field, _, _ := strings.Cut(typeErr.Field, ".")
		return domain.PreferencesPatch{}, fmt.Errorf("%w: invalid %s", domain.ErrValidation, field)
	}
	return domain.PreferencesPatch{}, fmt.Errorf("%w: invalid payload", domain.ErrValidation)
}
