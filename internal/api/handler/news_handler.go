package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsfeed/newsfeed-api/internal/core/ports"
)

type NewsHandler struct {
	news ports.NewsService
}

func NewNewsHandler(news ports.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// Personalized proxies the upstream news API using the caller's preferences.
//
// @Summary      Personalized news
// @Tags         news
// @Produce      json
// @Security     SessionToken
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /news [get]
func (h *NewsHandler) Personalized(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	payload, err := h.news.Personalized(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, payload)
}
