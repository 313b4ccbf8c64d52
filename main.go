package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wa_gateway/internal/config"
	"wa_gateway/internal/database"
	"wa_gateway/internal/handlers"
	"wa_gateway/internal/services"
	"wa_gateway/internal/whatsapp"

	"github.com/asaskevich/EventBus"
	"github.com/gorilla/mux"
)

// CORS middleware
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	log.Println("Starting WhatsApp gateway...")

	config.LoadEnvFile(".env")

	database.InitDatabase()
	db := database.GetDB()

	bus := EventBus.New()

	settings := services.NewSettingService(db)
	customers := services.NewCustomerService(db)
	media := services.NewMediaService()

	client := whatsapp.NewClient(whatsapp.Config{
		StoreDriver: config.Get("WA_STORE_DRIVER", ""),
		StoreDSN:    config.Get("WA_STORE_DSN", ""),
		SessionFile: config.Get("SESSION_FILE", "whatsapp-session.json"),
	}, settings, customers, bus)

	go func() {
		if err := client.Connect(); err != nil {
			log.Printf("Whatsapp connect error: %v", err)
		}
	}()

	scheduler := services.NewBroadcastScheduler(db, client, media)
	scheduler.Start()

	hub := handlers.NewSocketHub(bus)
	messageHandler := handlers.NewMessageHandler(client, settings, media)

	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, "index.html")
	}).Methods("GET")
	r.HandleFunc("/send-message", messageHandler.SendMessage).Methods("POST")
	r.HandleFunc("/send-media", messageHandler.SendMedia).Methods("POST")
	r.HandleFunc("/ws", hub.Serve)

	port := config.Get("APP_PORT", "3000")
	server := &http.Server{Addr: ":" + port, Handler: corsMiddleware(r)}

	go func() {
		log.Printf("Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Stop()
	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
