package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/dmitrijs2005/carshowroom/internal/server/models"
	"github.com/go-chi/chi/v5"
)

const carNotFound = "Car not found"

// carResponse mirrors the document shape the client expects, id included
// as "_id".
type carResponse struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	CarName     string    `json:"carName"`
	ModelName   string    `json:"modelName"`
	BuyDate     string    `json:"buyDate"`
	BuyPrice    float64   `json:"buyPrice"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newCarResponse(c *models.Car) carResponse {
	out := carResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		CarName:     c.CarName,
		ModelName:   c.ModelName,
		BuyDate:     c.BuyDate.Format(common.DateLayout),
		BuyPrice:    c.BuyPrice,
		Description: c.Description,
		Tags:        c.Tags,
		Images:      c.Images,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	return out
}

type carEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Car     carResponse `json:"car"`
}

func (s *HTTPServer) handleListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := s.cars.List(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		s.writeServiceError(r.Context(), w, err, carNotFound)
		return
	}

	out := make([]carResponse, 0, len(cars))
	for i := range cars {
		out = append(out, newCarResponse(&cars[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "cars": out})
}

func (s *HTTPServer) handleGetCar(w http.ResponseWriter, r *http.Request) {
	car, err := s.cars.Get(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(r.Context(), w, err, carNotFound)
		return
	}
	writeJSON(w, http.StatusOK, carEnvelope{Success: true, Car: newCarResponse(car)})
}

func (s *HTTPServer) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	form, ok := s.readCarForm(w, r, false)
	if !ok {
		return
	}

	car, err := s.cars.Create(r.Context(), userIDFrom(r.Context()), form.input, form.images)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, carNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, carEnvelope{Success: true, Message: "Car created successfully", Car: newCarResponse(car)})
}

func (s *HTTPServer) handleUpdateCar(w http.ResponseWriter, r *http.Request) {
	form, ok := s.readCarForm(w, r, true)
	if !ok {
		return
	}

	car, err := s.cars.Update(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), form.input, form.existing, form.images)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, carNotFound)
		return
	}
	writeJSON(w, http.StatusOK, carEnvelope{Success: true, Message: "Car updated successfully", Car: newCarResponse(car)})
}

// handleDeleteCar ignores any request body: the owner is the token's user.
func (s *HTTPServer) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	if err := s.cars.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(r.Context(), w, err, carNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Car deleted successfully"})
}
