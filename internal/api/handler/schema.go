package handler

import "github.com/newsfeed/newsfeed-api/internal/core/domain"

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// loginRequest identifies the user by email or username.
type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email"    validate:"required_without=Username"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// preferencesRequest documents the PUT body; the handler decodes directly
// into domain.PreferencesPatch.
type preferencesRequest struct {
	Categories         []string `json:"categories,omitempty"`
	Sources            []string `json:"sources,omitempty"`
	Language           string   `json:"language,omitempty"`
	Region             string   `json:"region,omitempty"`
	ReadingFrequency   string   `json:"readingFrequency,omitempty" enums:"daily,weekly,monthly"`
	TrendingPreference *bool    `json:"trendingPreference,omitempty"`
}

type preferencesResponse struct {
	Preferences domain.Preferences `json:"preferences"`
}

type errorResponse struct {
	Error string `json:"error"`
}
