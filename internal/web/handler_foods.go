package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mkowalik/dailybite/internal/domain"
)

func (s *Server) handleSearchFoods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	allowExternal := r.URL.Query().Get("external") == "true"

	products, err := s.catalog.Search(r.Context(), query, allowExternal)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if products == nil {
		products = []*domain.FoodProduct{}
	}
	s.writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetFoodByBarcode(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.GetByBarcode(r.Context(), r.PathValue("code"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleCreateFood(w http.ResponseWriter, r *http.Request) {
	var dto domain.CreateProduct
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	product, err := s.catalog.Create(r.Context(), dto)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, product)
}
