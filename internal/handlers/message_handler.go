package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"wa_gateway/internal/models"
	"wa_gateway/internal/services"

	"github.com/go-playground/validator/v10"
	"go.mau.fi/whatsmeow/types"
)

// Messenger is the outbound surface of the messaging adapter.
type Messenger interface {
	IsRegistered(ctx context.Context, to types.JID) (bool, error)
	SendText(ctx context.Context, to types.JID, text string) (*models.DeliveryReceipt, error)
	SendMedia(ctx context.Context, to types.JID, att *services.MediaAttachment, caption string) (*models.DeliveryReceipt, error)
}

type sendMessageRequest struct {
	Number  string `json:"number" validate:"required"`
	Message string `json:"message" validate:"required"`
	Token   string `json:"token" validate:"required"`
}

type sendMediaRequest struct {
	Token   string `json:"token" validate:"required"`
	Number  string `json:"number" validate:"required"`
	Caption string `json:"caption" validate:"required"`
	Media   string `json:"media" validate:"required"`
}

// MessageHandler serves the send endpoints. Each request passes field
// validation, the API token check, and the registered-number gate before
// anything is dispatched.
type MessageHandler struct {
	messenger Messenger
	settings  *services.SettingService
	media     *services.MediaService
	validate  *validator.Validate
}

func NewMessageHandler(messenger Messenger, settings *services.SettingService, media *services.MediaService) *MessageHandler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &MessageHandler{
		messenger: messenger,
		settings:  settings,
		media:     media,
		validate:  validate,
	}
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		r.ParseForm()
		req = sendMessageRequest{
			Number:  r.FormValue("number"),
			Message: r.FormValue("message"),
			Token:   r.FormValue("token"),
		}
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, validationMessages(err))
		return
	}

	to, ok := h.authorize(w, r, req.Token, req.Number)
	if !ok {
		return
	}

	receipt, err := h.messenger.SendText(r.Context(), to, req.Message)
	if err != nil {
		respondServerError(w, err)
		return
	}

	respondSuccess(w, receipt)
}

func (h *MessageHandler) SendMedia(w http.ResponseWriter, r *http.Request) {
	var req sendMediaRequest
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		r.ParseForm()
		req = sendMediaRequest{
			Token:   r.FormValue("token"),
			Number:  r.FormValue("number"),
			Caption: r.FormValue("caption"),
			Media:   r.FormValue("media"),
		}
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, validationMessages(err))
		return
	}

	to, ok := h.authorize(w, r, req.Token, req.Number)
	if !ok {
		return
	}

	attachment, err := h.media.Fetch(req.Media)
	if err != nil {
		respondServerError(w, err)
		return
	}

	receipt, err := h.messenger.SendMedia(r.Context(), to, attachment, req.Caption)
	if err != nil {
		respondServerError(w, err)
		return
	}

	respondSuccess(w, receipt)
}

// authorize runs the token check and the registered-number gate. It writes
// the error response itself and reports whether the request may proceed.
func (h *MessageHandler) authorize(w http.ResponseWriter, r *http.Request, token, number string) (types.JID, bool) {
	valid, err := h.settings.ValidateToken(token)
	if err != nil {
		respondServerError(w, err)
		return types.JID{}, false
	}
	if !valid {
		respondError(w, http.StatusForbidden, "The api token is invalid.")
		return types.JID{}, false
	}

	to := services.FormatPhoneNumber(number)

	registered, err := h.messenger.IsRegistered(r.Context(), to)
	if err != nil {
		respondServerError(w, err)
		return types.JID{}, false
	}
	if !registered {
		respondError(w, http.StatusUnprocessableEntity, "The number is not registered.")
		return types.JID{}, false
	}

	return to, true
}

func isJSONRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

func validationMessages(err error) map[string]string {
	messages := map[string]string{}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			messages[fe.Field()] = fmt.Sprintf("The %s field is required.", fe.Field())
		}
	}
	return messages
}
