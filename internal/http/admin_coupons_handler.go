package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	coupondomain "github.com/ScriptsHub07/venda3/internal/coupon/domain"
	couponrepo "github.com/ScriptsHub07/venda3/internal/coupon/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CouponRepository interface {
	List(ctx context.Context) ([]*coupondomain.Coupon, error)
	Create(ctx context.Context, coupon *coupondomain.Coupon) error
	Update(ctx context.Context, coupon *coupondomain.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AdminCouponsHandler struct {
	coupons CouponRepository
	timeout time.Duration
}

func NewAdminCouponsHandler(coupons CouponRepository, timeout time.Duration) *AdminCouponsHandler {
	return &AdminCouponsHandler{coupons: coupons, timeout: timeout}
}

type CouponRequestDTO struct {
	Code               string     `json:"code"`
	DiscountPercentage *float64   `json:"discount_percentage"`
	DiscountFixed      *float64   `json:"discount_fixed"`
	MinPurchaseAmount  *float64   `json:"min_purchase_amount"`
	MaxUses            *int       `json:"max_uses"`
	StartsAt           *time.Time `json:"starts_at"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

func (dto *CouponRequestDTO) toCoupon() (*coupondomain.Coupon, string) {
	code := coupondomain.NormalizeCode(dto.Code)
	if len(code) < 3 {
		return nil, "code must have at least 3 characters"
	}
	if dto.DiscountPercentage == nil && dto.DiscountFixed == nil {
		return nil, "either discount_percentage or discount_fixed is required"
	}
	if dto.DiscountPercentage != nil && (*dto.DiscountPercentage <= 0 || *dto.DiscountPercentage > 100) {
		return nil, "discount_percentage must be between 0 and 100"
	}
	if dto.DiscountFixed != nil && *dto.DiscountFixed < 0 {
		return nil, "discount_fixed must not be negative"
	}
	if dto.MaxUses != nil && *dto.MaxUses < 1 {
		return nil, "max_uses must be at least 1"
	}

	return &coupondomain.Coupon{
		Code:               code,
		DiscountPercentage: dto.DiscountPercentage,
		DiscountFixed:      dto.DiscountFixed,
		MinPurchaseAmount:  dto.MinPurchaseAmount,
		MaxUses:            dto.MaxUses,
		StartsAt:           dto.StartsAt,
		ExpiresAt:          dto.ExpiresAt,
	}, ""
}

func (h *AdminCouponsHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	coupons, err := h.coupons.List(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list coupons")
		return
	}
	if coupons == nil {
		coupons = []*coupondomain.Coupon{}
	}

	respondJSON(w, http.StatusOK, coupons)
}

func (h *AdminCouponsHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	coupon, problem := req.toCoupon()
	if problem != "" {
		respondError(w, http.StatusBadRequest, "invalid_coupon", problem)
		return
	}
	coupon.ID = uuid.New()

	if err := h.coupons.Create(ctx, coupon); err != nil {
		if errors.Is(err, couponrepo.ErrDuplicateCode) {
			respondError(w, http.StatusConflict, "duplicate_code", "a coupon with this code already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create coupon")
		return
	}

	respondJSON(w, http.StatusCreated, coupon)
}

func (h *AdminCouponsHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid coupon id")
		return
	}

	var req CouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	coupon, problem := req.toCoupon()
	if problem != "" {
		respondError(w, http.StatusBadRequest, "invalid_coupon", problem)
		return
	}
	coupon.ID = id

	if err := h.coupons.Update(ctx, coupon); err != nil {
		switch {
		case errors.Is(err, couponrepo.ErrCouponNotFound):
			respondError(w, http.StatusNotFound, "not_found", "coupon not found")
		case errors.Is(err, couponrepo.ErrDuplicateCode):
			respondError(w, http.StatusConflict, "duplicate_code", "a coupon with this code already exists")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update coupon")
		}
		return
	}

	respondJSON(w, http.StatusOK, coupon)
}

func (h *AdminCouponsHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid coupon id")
		return
	}

	if err := h.coupons.Delete(ctx, id); err != nil {
		if errors.Is(err, couponrepo.ErrCouponNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "coupon not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete coupon")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
