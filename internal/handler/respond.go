package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/gourmet-express/internal/domain/delivery"
	"github.com/xenking/gourmet-express/internal/domain/order"
	"github.com/xenking/gourmet-express/internal/domain/payment"
	"github.com/xenking/gourmet-express/internal/domain/restaurant"
	"github.com/xenking/gourmet-express/internal/domain/user"
)

// maxBodyBytes caps request bodies; all payloads here are small JSON.
const maxBodyBytes = 1 << 20

// Health responds with the fixed health payload.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("message")
	e.Str("Healthy")
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(e.Bytes())
}

// decodeBody decodes the JSON request body into dst, rejecting unknown
// payload sizes above maxBodyBytes.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeDomainError translates a domain error into the corresponding HTTP
// status. Anything outside the domain taxonomy is a server error.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidRole     *user.InvalidRoleError
		menuItemMissing *restaurant.MenuItemNotFoundError
		invalidQty      *order.InvalidQuantityError
		invalidAssignee *delivery.InvalidAssigneeError
	)

	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, restaurant.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, delivery.ErrNotFound),
		errors.As(err, &menuItemMissing):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, delivery.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, payment.ErrNonPositiveAmount),
		errors.Is(err, payment.ErrOrderMismatch),
		errors.As(err, &invalidRole),
		errors.As(err, &invalidQty),
		errors.As(err, &invalidAssignee):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
