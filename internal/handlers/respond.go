package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// apiResponse is the envelope every endpoint answers with. Message is a
// string on most paths and a field→message map on validation failures.
type apiResponse struct {
	Status   bool        `json:"status"`
	Message  interface{} `json:"message"`
	Response interface{} `json:"response,omitempty"`
}

const serverErrorMessage = "server error, please contact administrator."

func respond(w http.ResponseWriter, code int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondSuccess(w http.ResponseWriter, response interface{}) {
	respond(w, http.StatusOK, apiResponse{Status: true, Message: "success", Response: response})
}

func respondError(w http.ResponseWriter, code int, message interface{}) {
	respond(w, code, apiResponse{Status: false, Message: message})
}

// respondServerError logs the raw error and answers with a generic message.
// Internal details never reach the caller.
func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("Handler error: %v", err)
	respondError(w, http.StatusInternalServerError, serverErrorMessage)
}
