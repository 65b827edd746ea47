package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newsfeed/newsfeed-api/internal/api/middleware"
	"github.com/newsfeed/newsfeed-api/internal/core/domain"
)

type stubPreferenceService struct {
	getFn    func(ctx context.Context, userID string) (domain.Preferences, error)
	updateFn func(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error)
}

func (s *stubPreferenceService) Get(ctx context.Context, userID string) (domain.Preferences, error) {
	return s.getFn(ctx, userID)
}

func (s *stubPreferenceService) Update(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
	return s.updateFn(ctx, userID, patch)
}

func authedRequest(method, body, userID string) *http.Request {
	req := jsonRequest(method, "/users/preferences", body)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestPreferenceHandler_Get(t *testing.T) {
	e := newTestEcho()
	stub := &stubPreferenceService{
		getFn: func(ctx context.Context, userID string) (domain.Preferences, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			return domain.DefaultPreferences(), nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(authedRequest(http.MethodGet, "", "u1"), rec)
	if err := NewPreferenceHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp preferencesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Preferences.Language != "en" || !resp.Preferences.TrendingPreference {
		t.Fatalf("unexpected preferences: %+v", resp.Preferences)
	}
	if !strings.Contains(rec.Body.String(), `"readingFrequency":"daily"`) {
		t.Fatalf("expected camelCase field names: %s", rec.Body.String())
	}
}

func TestPreferenceHandler_Get_NoIdentity(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodGet, "/users/preferences", ""), httptest.NewRecorder())

	if err := NewPreferenceHandler(&stubPreferenceService{}).Get(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPreferenceHandler_Update_DecodesPatch(t *testing.T) {
	e := newTestEcho()
	var got domain.PreferencesPatch
	stub := &stubPreferenceService{
		updateFn: func(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
			got = patch
			return domain.DefaultPreferences(), nil
		},
	}

	body := `{"readingFrequency":"weekly","trendingPreference":false,"region":null}`
	rec := httptest.NewRecorder()
	c := e.NewContext(authedRequest(http.MethodPut, body, "u1"), rec)
	if err := NewPreferenceHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if got.ReadingFrequency == nil || *got.ReadingFrequency != domain.FrequencyWeekly {
		t.Fatalf("readingFrequency not decoded: %+v", got)
	}
	if got.TrendingPreference == nil || *got.TrendingPreference {
		t.Fatalf("trendingPreference=false must be present: %+v", got)
	}
	if got.Region != nil || got.Categories != nil || got.Language != nil {
		t.Fatalf("absent and null fields must stay nil: %+v", got)
	}
}

func TestPreferenceHandler_Update_EmptyBody(t *testing.T) {
	e := newTestEcho()
	stub := &stubPreferenceService{
		updateFn: func(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
			if !patch.IsEmpty() {
				t.Fatalf("expected empty patch, got %+v", patch)
			}
			return domain.DefaultPreferences(), nil
		},
	}

	c := e.NewContext(authedRequest(http.MethodPut, "", "u1"), httptest.NewRecorder())
	if err := NewPreferenceHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestPreferenceHandler_Update_TrailingWhitespace(t *testing.T) {
	e := newTestEcho()
	called := false
	stub := &stubPreferenceService{
		updateFn: func(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
			called = true
			return domain.DefaultPreferences(), nil
		},
	}

	c := e.NewContext(authedRequest(http.MethodPut, "{\"language\":\"de\"}\n\t ", "u1"), httptest.NewRecorder())
	if err := NewPreferenceHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("expected the service to be called")
	}
}

func TestPreferenceHandler_Update_WrongTypes(t *testing.T) {
	cases := map[string]string{
		`{"categories":"tech"}`:           "invalid categories",
		`{"sources":[1,2]}`:               "invalid sources",
		`{"trendingPreference":"yes"}`:    "invalid trendingPreference",
		`{"language":5}`:                  "invalid language",
		`{"readingFrequency":["daily"]}`:  "invalid readingFrequency",
		`not json`:                        "invalid payload",
		`{"language":"de"} junk`:          "invalid payload",
		`{"language":"de"}{"region":"x"}`: "invalid payload",
		`{"region":"eu"},`:                "invalid payload",
	}
	for body, msg := range cases {
		t.Run(body, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubPreferenceService{
				updateFn: func(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
					t.Fatalf("should not be called")
					return domain.Preferences{}, nil
				},
			}

			c := e.NewContext(authedRequest(http.MethodPut, body, "u1"), httptest.NewRecorder())
			err := NewPreferenceHandler(stub).Update(c)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), msg) {
				t.Fatalf("expected %q in %q", msg, err.Error())
			}
		})
	}
}

func TestPreferenceHandler_Update_ServiceError(t *testing.T) {
	e := newTestEcho()
	stub := &stubPreferenceService{
		updateFn: func(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.Preferences, error) {
			return domain.Preferences{}, domain.ErrUserNotFound
		},
	}

	c := e.NewContext(authedRequest(http.MethodPut, `{"language":"de"}`, "u1"), httptest.NewRecorder())
	if err := NewPreferenceHandler(stub).Update(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
