package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/favours/internal/apperrors"
	"github.com/nkiryanov/favours/internal/handlers/userctx"
	"github.com/nkiryanov/favours/internal/logger"
	"github.com/nkiryanov/favours/internal/models"
	"github.com/nkiryanov/favours/internal/service/favour"
)

// Favour service that remembers the last call and returns prepared result
type fakeFavours struct {
	favour models.Favour
	err    error

	createParams favour.CreateParams
	updateParams favour.UpdateParams
	userID       uuid.UUID
	favourID     uuid.UUID
}

func (f *fakeFavours) List(_ context.Context, userID uuid.UUID) ([]models.Favour, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return []models.Favour{f.favour}, nil
}

func (f *fakeFavours) Get(_ context.Context, favourID uuid.UUID, userID uuid.UUID) (models.Favour, error) {
	f.favourID, f.userID = favourID, userID
	return f.favour, f.err
}

func (f *fakeFavours) Create(_ context.Context, creatorID uuid.UUID, p favour.CreateParams) (models.Favour, error) {
	f.userID, f.createParams = creatorID, p
	return f.favour, f.err
}

func (f *fakeFavours) Update(_ context.Context, favourID uuid.UUID, userID uuid.UUID, p favour.UpdateParams) (models.Favour, error) {
	f.favourID, f.userID, f.updateParams = favourID, userID, p
	return f.favour, f.err
}

func (f *fakeFavours) Delete(_ context.Context, favourID uuid.UUID, userID uuid.UUID) error {
	f.favourID, f.userID = favourID, userID
	return f.err
}

func TestFavourHandlers(t *testing.T) {
	userID := uuid.New()
	partnerID := uuid.New()
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stored := models.Favour{
		ID:        uuid.New(),
		CreatorID: userID,
		PartnerID: partnerID,
		Title:     "Walk the dog",
		Status:    models.FavourPending,
		StartTime: start,
		CreatedAt: start,
		UpdatedAt: start,
	}

	// Serve request as authenticated user
	serve := func(h http.Handler, method string, path string, id string, body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(method, path, strings.NewReader(body))
		r = r.WithContext(userctx.New(r.Context(), userID))
		if id != "" {
			r.SetPathValue("id", id)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	l := logger.NewNoOpLogger()

	t.Run("list", func(t *testing.T) {
		fs := &fakeFavours{favour: stored}

		w := serve(handleListFavours(fs, l), http.MethodGet, "/favours", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, userID, fs.userID)
		assert.JSONEq(t, `{"favours": [{
			"id": "`+stored.ID.String()+`",
			"creator": "`+userID.String()+`",
			"partner": "`+partnerID.String()+`",
			"title": "Walk the dog",
			"status": "pending",
			"startTime": "2024-05-01T10:00:00Z",
			"createdAt": "2024-05-01T10:00:00Z",
			"updatedAt": "2024-05-01T10:00:00Z"
		}]}`, w.Body.String())
	})

	t.Run("list store failure hidden", func(t *testing.T) {
		fs := &fakeFavours{err: errors.New("db error: connection reset")}

		w := serve(handleListFavours(fs, l), http.MethodGet, "/favours", "", "")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})

	t.Run("get", func(t *testing.T) {
		tests := []struct {
			name         string
			id           string
			err          error
			expectedCode int
			expectedMsg  string
		}{
			{"found", stored.ID.String(), nil, http.StatusOK, "Favour found successfully!"},
			{"invalid id", "not-an-id", nil, http.StatusBadRequest, "Invalid ID format"},
			{"not found", stored.ID.String(), apperrors.ErrFavourNotFound, http.StatusNotFound, "Favour not found or unauthorized access"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fs := &fakeFavours{favour: stored, err: tt.err}

				w := serve(handleGetFavour(fs, l), http.MethodGet, "/favours/"+tt.id, tt.id, "")

				require.Equal(t, tt.expectedCode, w.Code, w.Body.String())
				var resp struct {
					Message string `json:"message"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMsg, resp.Message)
			})
		}
	})

	t.Run("create", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			fs := &fakeFavours{favour: stored}
			body := `{"partner": "` + partnerID.String() + `", "title": "Walk the dog", "endTime": "2024-05-01T12:00:00Z"}`

			w := serve(handleCreateFavour(fs, l), http.MethodPost, "/favours/add-favour", "", body)

			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.Equal(t, partnerID, fs.createParams.PartnerID)
			assert.Equal(t, "Walk the dog", fs.createParams.Title)
			assert.Nil(t, fs.createParams.StartTime, "start time should be left for service")
			require.NotNil(t, fs.createParams.EndTime)
			assert.True(t, start.Add(2*time.Hour).Equal(*fs.createParams.EndTime))
			assert.Contains(t, w.Body.String(), `"message":"Favour created successfully"`)
		})

		tests := []struct {
			name         string
			body         string
			err          error
			expectedCode int
			expected     string
		}{
			{"partner missing", `{"title": "t"}`, nil, http.StatusBadRequest, `"partner":"This field is required"`},
			{"partner invalid", `{"partner": "123", "title": "t"}`, nil, http.StatusBadRequest, `"partner":"Value is not a valid id"`},
			{"title missing", `{"partner": "` + partnerID.String() + `"}`, nil, http.StatusBadRequest, `"title":"This field is required"`},
			{"title too long", `{"partner": "` + partnerID.String() + `", "title": "` + strings.Repeat("x", 51) + `"}`, nil, http.StatusBadRequest, `"title":"Value is too long (maximum 50)"`},
			{"bad time", `{"partner": "` + partnerID.String() + `", "title": "t", "endTime": "tomorrow"}`, nil, http.StatusBadRequest, `"decoding_failed"`},
			{"self partner", `{"partner": "` + partnerID.String() + `", "title": "t"}`, apperrors.ErrFavourSelfPartner, http.StatusBadRequest, "You cannot assign a favour to yourself"},
			{"time range", `{"partner": "` + partnerID.String() + `", "title": "t"}`, apperrors.ErrFavourTimeRange, http.StatusBadRequest, "End time must be after start time"},
			{"unknown partner", `{"partner": "` + partnerID.String() + `", "title": "t"}`, apperrors.ErrPartnerNotFound, http.StatusBadRequest, "Partner not found"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fs := &fakeFavours{err: tt.err}

				w := serve(handleCreateFavour(fs, l), http.MethodPost, "/favours/add-favour", "", tt.body)

				require.Equal(t, tt.expectedCode, w.Code, w.Body.String())
				assert.Contains(t, w.Body.String(), tt.expected)
			})
		}
	})

	t.Run("update", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			verified := stored
			verified.Status = models.FavourVerified
			fs := &fakeFavours{favour: verified}

			w := serve(handleUpdateFavour(fs, l), http.MethodPost, "/favours/x/update-favour", stored.ID.String(), `{"status": "verified"}`)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, stored.ID, fs.favourID)
			require.NotNil(t, fs.updateParams.Status)
			assert.Equal(t, models.FavourVerified, *fs.updateParams.Status)
			assert.Nil(t, fs.updateParams.Title, "title should not be changed")
			assert.Contains(t, w.Body.String(), `"status":"verified"`)
			assert.Contains(t, w.Body.String(), `"message":"Favour updated successfully"`)
		})

		tests := []struct {
			name         string
			id           string
			body         string
			err          error
			expectedCode int
			expected     string
		}{
			{"invalid id", "123", `{}`, nil, http.StatusBadRequest, "Invalid ID format"},
			{"pending status", stored.ID.String(), `{"status": "pending"}`, apperrors.ErrFavourStatus, http.StatusBadRequest, "Invalid status value"},
			{"pending status of foreign favour", stored.ID.String(), `{"status": "pending"}`, apperrors.ErrFavourNotFound, http.StatusNotFound, "Favour not found or unauthorized access"},
			{"blank title", stored.ID.String(), `{"title": ""}`, nil, http.StatusBadRequest, `"title":"Invalid value"`},
			{"not participant", stored.ID.String(), `{"title": "new"}`, apperrors.ErrFavourNotFound, http.StatusNotFound, "Favour not found or unauthorized access"},
			{"time range", stored.ID.String(), `{"endTime": "2020-01-01T00:00:00Z"}`, apperrors.ErrFavourTimeRange, http.StatusBadRequest, "End time must be after start time"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fs := &fakeFavours{err: tt.err}

				w := serve(handleUpdateFavour(fs, l), http.MethodPost, "/favours/x/update-favour", tt.id, tt.body)

				require.Equal(t, tt.expectedCode, w.Code, w.Body.String())
				assert.Contains(t, w.Body.String(), tt.expected)
			})
		}
	})

	t.Run("delete", func(t *testing.T) {
		t.Run("ok", func(t *testing.T) {
			fs := &fakeFavours{}

			w := serve(handleDeleteFavour(fs, l), http.MethodDelete, "/favours/x", stored.ID.String(), "")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, stored.ID, fs.favourID)
			assert.Equal(t, userID, fs.userID)
			assert.JSONEq(t, `{"message": "Favour deleted successfully"}`, w.Body.String())
		})

		t.Run("not creator", func(t *testing.T) {
			fs := &fakeFavours{err: apperrors.ErrFavourNotFound}

			w := serve(handleDeleteFavour(fs, l), http.MethodDelete, "/favours/x", stored.ID.String(), "")

			require.Equal(t, http.StatusNotFound, w.Code)
		})
	})

	t.Run("no user in context", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/favours", nil)
		w := httptest.NewRecorder()

		handleListFavours(&fakeFavours{}, l).ServeHTTP(w, r)

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
