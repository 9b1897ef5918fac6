package storefront

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/canteen-order/internal/common"
	"github.com/noah-isme/canteen-order/internal/coupon"
	"github.com/noah-isme/canteen-order/internal/menu"
	"github.com/noah-isme/canteen-order/internal/order"
	"github.com/noah-isme/canteen-order/internal/pricing"
)

const maxBodyBytes = 64 << 10

// Handler exposes the session over the local JSON API.
type Handler struct {
	Session *Session
	// CheckoutLimiter guards POST /api/checkout when set.
	CheckoutLimiter func(http.Handler) http.Handler
}

// Routes mounts every storefront endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Post("/menu/reload", h.ReloadMenu)

	r.Route("/cart", func(c chi.Router) {
		c.Get("/", h.Cart)
		c.Post("/items", h.AddItem)
		c.Post("/items/{itemId}/increment", h.Increment)
		c.Post("/items/{itemId}/decrement", h.Decrement)
		c.Delete("/items/{itemId}", h.Remove)
		c.Put("/coupon/input", h.CouponInput)
		c.Post("/coupon", h.ApplyCoupon)
	})

	r.Route("/checkout", func(c chi.Router) {
		c.Get("/form", h.GetForm)
		c.Put("/form", h.PutForm)
		if h.CheckoutLimiter != nil {
			c.With(h.CheckoutLimiter).Post("/", h.Checkout)
		} else {
			c.Post("/", h.Checkout)
		}
	})

	r.Get("/notification", h.Notification)
}

// Menu handles GET /api/menu.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	common.Data(w, http.StatusOK, h.Session.Menu(r.URL.Query().Get("category")))
}

// ReloadMenu handles POST /api/menu/reload.
func (h *Handler) ReloadMenu(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.ReloadMenu(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, h.Session.Menu(menu.AllCategories))
}

// Cart handles GET /api/cart.
func (h *Handler) Cart(w http.ResponseWriter, _ *http.Request) {
	common.Data(w, http.StatusOK, h.Session.Cart())
}

type addItemRequest struct {
	ItemID string `json:"itemId"`
}

// AddItem handles POST /api/cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.ItemID) == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "itemId is required", nil)
		return
	}
	view, err := h.Session.AddItem(strings.TrimSpace(req.ItemID))
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// Increment handles POST /api/cart/items/{itemId}/increment.
func (h *Handler) Increment(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.Session.Increment(chi.URLParam(r, "itemId")))
}

// Decrement handles POST /api/cart/items/{itemId}/decrement.
func (h *Handler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.Session.Decrement(chi.URLParam(r, "itemId")))
}

// Remove handles DELETE /api/cart/items/{itemId}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.Session.Remove(chi.URLParam(r, "itemId")))
}

type couponRequest struct {
	Code string `json:"code"`
}

// CouponInput handles PUT /api/cart/coupon/input.
func (h *Handler) CouponInput(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.respond(w)(h.Session.SetCouponInput(req.Code))
}

// ApplyCoupon handles POST /api/cart/coupon. Without a body the typed text is applied.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	code := req.Code
	if code == "" {
		code = h.Session.Cart().Coupon.Input
	}
	h.respond(w)(h.Session.ApplyCoupon(code))
}

// GetForm handles GET /api/checkout/form.
func (h *Handler) GetForm(w http.ResponseWriter, _ *http.Request) {
	common.Data(w, http.StatusOK, h.Session.Form())
}

// PutForm handles PUT /api/checkout/form.
func (h *Handler) PutForm(w http.ResponseWriter, r *http.Request) {
	var f order.Form
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Session.SetForm(f); err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, f)
}

type checkoutResponse struct {
	OrderID string   `json:"orderId"`
	Cart    CartView `json:"cart"`
}

// Checkout handles POST /api/checkout. Without a body the form draft is submitted.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var f order.Form
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, err)
		return
	}
	if f == (order.Form{}) {
		f = h.Session.Form()
	}
	if err := f.Validate(); err != nil {
		_ = h.Session.SetForm(f)
		writeError(w, err)
		return
	}
	res, err := h.Session.Checkout(r.Context(), f.Normalized())
	if err != nil {
		writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, checkoutResponse{OrderID: res.ID, Cart: h.Session.Cart()})
}

// Notification handles GET /api/notification. It returns null when nothing is visible.
func (h *Handler) Notification(w http.ResponseWriter, _ *http.Request) {
	n, ok := h.Session.Notification()
	if !ok {
		common.Data(w, http.StatusOK, nil)
		return
	}
	common.Data(w, http.StatusOK, n)
}

func (h *Handler) respond(w http.ResponseWriter) func(CartView, error) {
	return func(view CartView, err error) {
		if err != nil {
			writeError(w, err)
			return
		}
		common.Data(w, http.StatusOK, view)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return common.NewAppError(common.CodeBadRequest, "invalid JSON body", http.StatusBadRequest, err)
	}
	return nil
}

func writeError(w http.ResponseWriter, err error) {
	common.WriteError(w, toAppError(err))
}

func toAppError(err error) error {
	var (
		appErr     *common.AppError
		invalid    *order.ValidationError
		ineligible *coupon.IneligibleError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &invalid):
		e := common.NewAppError(common.CodeValidation, "invalid delivery details", http.StatusBadRequest, err)
		e.Details = invalid.Fields
		return e
	case errors.Is(err, coupon.ErrInvalidCoupon):
		return common.NewAppError(common.CodeInvalidCoupon, "Invalid coupon code", http.StatusUnprocessableEntity, err)
	case errors.As(err, &ineligible):
		e := common.NewAppError(common.CodeIneligibleDiscount, "Min order "+pricing.FormatWhole(ineligible.Minimum)+" required for this coupon", http.StatusUnprocessableEntity, err)
		e.Details = map[string]any{"remaining": pricing.Float(ineligible.Remaining)}
		return e
	case errors.Is(err, order.ErrEmptyCart):
		return common.NewAppError(common.CodeEmptyCart, "cart is empty", http.StatusConflict, err)
	case errors.Is(err, order.ErrSubmissionInFlight), errors.Is(err, ErrCheckoutInFlight):
		return common.NewAppError(common.CodeCheckoutInFlight, "an order is being placed", http.StatusConflict, err)
	case errors.Is(err, order.ErrOrderSubmission):
		return common.NewAppError(common.CodeOrderFailed, "Could not place order. Try again.", http.StatusBadGateway, err)
	case errors.Is(err, menu.ErrMenuLoad):
		return common.NewAppError(common.CodeMenuLoadFailed, "Unable to load menu. Please try again.", http.StatusBadGateway, err)
	case errors.Is(err, ErrItemNotFound):
		return common.NewAppError(common.CodeNotFound, "menu item not found", http.StatusNotFound, err)
	case errors.Is(err, ErrItemUnavailable):
		return common.NewAppError(common.CodeConflict, "menu item is unavailable", http.StatusConflict, err)
	default:
		return err
	}
}
