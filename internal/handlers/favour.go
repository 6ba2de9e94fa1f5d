package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/favours/internal/apperrors"
	"github.com/nkiryanov/favours/internal/handlers/render"
	"github.com/nkiryanov/favours/internal/handlers/userctx"
	"github.com/nkiryanov/favours/internal/logger"
	"github.com/nkiryanov/favours/internal/models"
	"github.com/nkiryanov/favours/internal/service/favour"
)

const (
	favourFoundMessage   = "Favour found successfully!"
	favourCreatedMessage = "Favour created successfully"
	favourUpdatedMessage = "Favour updated successfully"
	favourDeletedMessage = "Favour deleted successfully"
	invalidIDMessage     = "Invalid ID format"
)

type favourResponse struct {
	ID        uuid.UUID  `json:"id"`
	Creator   uuid.UUID  `json:"creator"`
	Partner   uuid.UUID  `json:"partner"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func newFavourResponse(f models.Favour) favourResponse {
	return favourResponse{
		ID:        f.ID,
		Creator:   f.CreatorID,
		Partner:   f.PartnerID,
		Title:     f.Title,
		Status:    string(f.Status),
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

type favourMessageResponse struct {
	Message string         `json:"message"`
	Favour  favourResponse `json:"favour"`
}

// Render favour service error. Unexpected errors are logged and hidden from the client
func favourError(w http.ResponseWriter, l logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrFavourNotFound):
		render.ServiceError(w, "Favour not found or unauthorized access", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrPartnerNotFound):
		render.ServiceError(w, "Partner not found", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrFavourSelfPartner):
		render.ServiceError(w, "You cannot assign a favour to yourself", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrFavourTimeRange):
		render.ServiceError(w, "End time must be after start time", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrFavourStatus):
		render.ServiceError(w, "Invalid status value", http.StatusBadRequest)
	default:
		l.Error("Favour request failed", "error", err)
		render.ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
	}
}

// Read user id set by auth middleware and favour id from path.
// Writes error response and returns false if any is missing
func favourRequestIDs(w http.ResponseWriter, r *http.Request) (userID uuid.UUID, favourID uuid.UUID, ok bool) {
	userID, ok = userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
		return userID, favourID, false
	}

	favourID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, invalidIDMessage, http.StatusBadRequest)
		return userID, favourID, false
	}

	return userID, favourID, true
}

func handleListFavours(favourService favourService, l logger.Logger) http.Handler {
	type response struct {
		Favours []favourResponse `json:"favours"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
			return
		}

		favours, err := favourService.List(r.Context(), userID)
		if err != nil {
			favourError(w, l, err)
			return
		}

		res := response{Favours: make([]favourResponse, 0, len(favours))}
		for _, f := range favours {
			res.Favours = append(res.Favours, newFavourResponse(f))
		}
		render.JSON(w, res)
	})
}

func handleGetFavour(favourService favourService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, favourID, ok := favourRequestIDs(w, r)
		if !ok {
			return
		}

		f, err := favourService.Get(r.Context(), favourID, userID)
		if err != nil {
			favourError(w, l, err)
			return
		}

		render.JSON(w, favourMessageResponse{Message: favourFoundMessage, Favour: newFavourResponse(f)})
	})
}

func handleCreateFavour(favourService favourService, l logger.Logger) http.Handler {
	type request struct {
		Partner   string     `json:"partner" validate:"required,uuid"`
		Title     string     `json:"title" validate:"required,notblank,max=50"`
		StartTime *time.Time `json:"startTime"`
		EndTime   *time.Time `json:"endTime"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		// Already validated, so parsing never fails
		partnerID := uuid.MustParse(data.Partner)

		f, err := favourService.Create(r.Context(), userID, favour.CreateParams{
			PartnerID: partnerID,
			Title:     data.Title,
			StartTime: data.StartTime,
			EndTime:   data.EndTime,
		})
		if err != nil {
			favourError(w, l, err)
			return
		}

		render.JSONWithStatus(w, favourMessageResponse{Message: favourCreatedMessage, Favour: newFavourResponse(f)}, http.StatusCreated)
	})
}

func handleUpdateFavour(favourService favourService, l logger.Logger) http.Handler {
	type request struct {
		Title     *string    `json:"title" validate:"omitnil,notblank,max=50"`
		Status    *string    `json:"status"`
		StartTime *time.Time `json:"startTime"`
		EndTime   *time.Time `json:"endTime"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, favourID, ok := favourRequestIDs(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		params := favour.UpdateParams{
			Title:     data.Title,
			StartTime: data.StartTime,
			EndTime:   data.EndTime,
		}
		if data.Status != nil {
			status := models.FavourStatus(*data.Status)
			params.Status = &status
		}

		f, err := favourService.Update(r.Context(), favourID, userID, params)
		if err != nil {
			favourError(w, l, err)
			return
		}

		render.JSON(w, favourMessageResponse{Message: favourUpdatedMessage, Favour: newFavourResponse(f)})
	})
}

func handleDeleteFavour(favourService favourService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, favourID, ok := favourRequestIDs(w, r)
		if !ok {
			return
		}

		if err := favourService.Delete(r.Context(), favourID, userID); err != nil {
			favourError(w, l, err)
			return
		}

		render.JSON(w, messageResponse{Message: favourDeletedMessage})
	})
}
