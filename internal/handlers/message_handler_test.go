package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"wa_gateway/internal/models"
	"wa_gateway/internal/services"

	"github.com/google/uuid"
	"go.mau.fi/whatsmeow/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeMessenger struct {
	registered bool
	sendErr    error

	sentTexts int
	sentMedia int
}

func (f *fakeMessenger) IsRegistered(ctx context.Context, to types.JID) (bool, error) {
	return f.registered, nil
}

func (f *fakeMessenger) SendText(ctx context.Context, to types.JID, text string) (*models.DeliveryReceipt, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentTexts++
	return &models.DeliveryReceipt{ID: "msg-1", To: to.String(), Timestamp: 1700000000}, nil
}

func (f *fakeMessenger) SendMedia(ctx context.Context, to types.JID, att *services.MediaAttachment, caption string) (*models.DeliveryReceipt, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentMedia++
	return &models.DeliveryReceipt{ID: "msg-2", To: to.String(), Timestamp: 1700000000}, nil
}

func newHandlerTestEnv(t *testing.T, messenger Messenger) *MessageHandler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	seed := models.Setting{Slug: models.SettingTokenSlug, Name: "API Token", Value: "secret-token"}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}

	return NewMessageHandler(messenger, services.NewSettingService(db), services.NewMediaService())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", "/send-message", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return envelope
}

func TestSendMessageSuccess(t *testing.T) {
	messenger := &fakeMessenger{registered: true}
	h := newHandlerTestEnv(t, messenger)

	rec := postJSON(t, h.SendMessage, map[string]string{
		"number":  "08123456789",
		"message": "hello",
		"token":   "secret-token",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	if envelope["status"] != true {
		t.Errorf("status field = %v, want true", envelope["status"])
	}
	if envelope["message"] != "success" {
		t.Errorf("message field = %v, want success", envelope["message"])
	}
	response, ok := envelope["response"].(map[string]interface{})
	if !ok {
		t.Fatalf("response field missing: %v", envelope)
	}
	if response["id"] != "msg-1" {
		t.Errorf("receipt id = %v", response["id"])
	}
	if messenger.sentTexts != 1 {
		t.Errorf("sentTexts = %d, want 1", messenger.sentTexts)
	}
}

func TestSendMessageValidation(t *testing.T) {
	h := newHandlerTestEnv(t, &fakeMessenger{registered: true})

	rec := postJSON(t, h.SendMessage, map[string]string{"number": "08123456789"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	fields, ok := envelope["message"].(map[string]interface{})
	if !ok {
		t.Fatalf("message should be a field map, got %v", envelope["message"])
	}
	if fields["message"] != "The message field is required." {
		t.Errorf("message error = %v", fields["message"])
	}
	if fields["token"] != "The token field is required." {
		t.Errorf("token error = %v", fields["token"])
	}
	if _, present := fields["number"]; present {
		t.Error("number was provided and should not appear in the error map")
	}
}

func TestSendMessageInvalidToken(t *testing.T) {
	messenger := &fakeMessenger{registered: true}
	h := newHandlerTestEnv(t, messenger)

	rec := postJSON(t, h.SendMessage, map[string]string{
		"number":  "08123456789",
		"message": "hello",
		"token":   "wrong-token",
	})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope["message"] != "The api token is invalid." {
		t.Errorf("message = %v", envelope["message"])
	}
	if messenger.sentTexts != 0 {
		t.Error("nothing should be sent with a bad token")
	}
}

func TestSendMessageUnregisteredNumber(t *testing.T) {
	messenger := &fakeMessenger{registered: false}
	h := newHandlerTestEnv(t, messenger)

	rec := postJSON(t, h.SendMessage, map[string]string{
		"number":  "08123456789",
		"message": "hello",
		"token":   "secret-token",
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope["message"] != "The number is not registered." {
		t.Errorf("message = %v", envelope["message"])
	}
	if messenger.sentTexts != 0 {
		t.Error("nothing should be sent to an unregistered number")
	}
}

func TestSendMessageServerErrorIsSanitized(t *testing.T) {
	messenger := &fakeMessenger{registered: true, sendErr: errors.New("dial tcp 10.0.0.5: connection refused")}
	h := newHandlerTestEnv(t, messenger)

	rec := postJSON(t, h.SendMessage, map[string]string{
		"number":  "08123456789",
		"message": "hello",
		"token":   "secret-token",
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope["message"] != serverErrorMessage {
		t.Errorf("message = %v, want the generic message", envelope["message"])
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("raw error details must not reach the response body")
	}
}

func TestSendMessageAcceptsFormEncoding(t *testing.T) {
	messenger := &fakeMessenger{registered: true}
	h := newHandlerTestEnv(t, messenger)

	form := url.Values{}
	form.Set("number", "08123456789")
	form.Set("message", "hello")
	form.Set("token", "secret-token")

	req := httptest.NewRequest("POST", "/send-message", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.SendMessage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if messenger.sentTexts != 1 {
		t.Errorf("sentTexts = %d, want 1", messenger.sentTexts)
	}
}

func TestSendMediaSuccess(t *testing.T) {
	fileServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer fileServer.Close()

	messenger := &fakeMessenger{registered: true}
	h := newHandlerTestEnv(t, messenger)

	rec := postJSON(t, h.SendMedia, map[string]string{
		"token":   "secret-token",
		"number":  "08123456789",
		"caption": "look at this",
		"media":   fileServer.URL + "/photo.jpg",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if messenger.sentMedia != 1 {
		t.Errorf("sentMedia = %d, want 1", messenger.sentMedia)
	}
}

func TestSendMediaUnfetchableURL(t *testing.T) {
	messenger := &fakeMessenger{registered: true}
	h := newHandlerTestEnv(t, messenger)

	rec := postJSON(t, h.SendMedia, map[string]string{
		"token":   "secret-token",
		"number":  "08123456789",
		"caption": "look at this",
		"media":   "http://127.0.0.1:0/broken.png",
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope["message"] != serverErrorMessage {
		t.Errorf("message = %v, want the generic message", envelope["message"])
	}
	if messenger.sentMedia != 0 {
		t.Error("nothing should be sent when the media fetch fails")
	}
}
