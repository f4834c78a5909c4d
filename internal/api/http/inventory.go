package http

import (
	"net/http"

	"psrental-backend/internal/report"
)

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Snapshot().Inventory)
}

func (h *Handler) ListStockHistory(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Snapshot().StockHistory)
}

func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	ok(w, report.Packages(h.store.Snapshot().Inventory))
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req UpdateStockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.store.UpdateStock(r.Context(), pathID(r), *req.Stock, req.Reason)
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, item)
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Snapshot().FavoriteLocations)
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req FavoriteLocationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fav, err := h.store.AddFavoriteLocation(r.Context(), req.Name, req.Location.toDomain())
	if err != nil {
		serviceError(w, err)
		return
	}
	created(w, fav)
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveFavoriteLocation(r.Context(), pathID(r)); err != nil {
		serviceError(w, err)
		return
	}
	ok(w, nil)
}

func (h *Handler) ListDeliveryPricing(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Snapshot().DeliveryPricingOptions)
}

func (h *Handler) UpdateDeliveryPricing(w http.ResponseWriter, r *http.Request) {
	var req UpdatePricingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pricing, err := h.store.UpdateDeliveryPricing(r.Context(), pathID(r), *req.Price)
	if err != nil {
		serviceError(w, err)
		return
	}
	ok(w, pricing)
}

func (h *Handler) CreateDeliveryPricing(w http.ResponseWriter, r *http.Request) {
	var req CreatePricingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pricing, err := h.store.AddCustomDeliveryPricing(r.Context(), req.Name, *req.Price)
	if err != nil {
		serviceError(w, err)
		return
	}
	created(w, pricing)
}
