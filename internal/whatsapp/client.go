package whatsapp

import (
	"context"
	"encoding/base64"
	"log"
	"sync"
	"time"

	"wa_gateway/internal/models"
	"wa_gateway/internal/services"

	"github.com/asaskevich/EventBus"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	_ "modernc.org/sqlite"
)

// Lifecycle topics published on the event bus. Each carries a single string
// payload: the QR data URL for TopicQR, a status message for the rest.
const (
	TopicQR            = "whatsapp:qr"
	TopicAuthenticated = "whatsapp:authenticated"
	TopicReady         = "whatsapp:ready"
	TopicAuthFailure   = "whatsapp:auth_failure"
	TopicDisconnected  = "whatsapp:disconnected"
)

const (
	maxReconnectAttempts = 5
	reconnectBaseDelay   = 2 * time.Second
	reconnectMaxDelay    = 30 * time.Second
)

// Config controls where the adapter keeps its credentials.
type Config struct {
	StoreDriver string // "sqlite" (default) or "pgx"
	StoreDSN    string
	SessionFile string
}

// Client owns the single connection to the messaging network. Lifecycle
// events are published once on the bus; the socket hub fans them out.
type Client struct {
	cfg      Config
	bus      EventBus.Bus
	settings *services.SettingService
	commands *CommandHandler
	session  *SessionFile

	wa    *whatsmeow.Client
	store *sqlstore.Container

	mu    sync.RWMutex
	ready bool

	restartMu  sync.Mutex
	restarting bool
}

func NewClient(cfg Config, settings *services.SettingService, customers *services.CustomerService, bus EventBus.Bus) *Client {
	if cfg.SessionFile == "" {
		cfg.SessionFile = "whatsapp-session.json"
	}
	return &Client{
		cfg:      cfg,
		bus:      bus,
		settings: settings,
		commands: NewCommandHandler(customers),
		session:  NewSessionFile(cfg.SessionFile),
	}
}

// Connect opens the credential store and starts the session. A stored device
// with a session snapshot on disk is resumed; anything else goes through the
// fresh QR flow.
func (c *Client) Connect() error {
	ctx := context.Background()

	if c.store == nil {
		driver := c.cfg.StoreDriver
		if driver == "" {
			driver = "sqlite"
		}
		dsn := c.cfg.StoreDSN
		if dsn == "" {
			dsn = "file:whatsapp-store.db?_pragma=foreign_keys(1)&_pragma=journal_mode=WAL"
		}

		store, err := sqlstore.New(ctx, driver, dsn, nil)
		if err != nil {
			log.Printf("Session store error: %v", err)
			return err
		}
		c.store = store
	}

	device, err := c.store.GetFirstDevice(ctx)
	if err != nil {
		log.Printf("Device store error: %v", err)
		return err
	}

	if device.ID != nil && !c.session.Exists() {
		// Stored credentials without a snapshot: start over.
		log.Println("Session file missing, clearing stored device")
		c.clearDevices()
		device = c.store.NewDevice()
	}
	if device.ID == nil {
		// No credentials; a leftover snapshot is stale.
		if err := c.session.Delete(); err != nil {
			log.Printf("Error removing stale session file: %v", err)
		}
	}

	c.wa = whatsmeow.NewClient(device, nil)
	c.wa.EnableAutoReconnect = false
	c.wa.AddEventHandler(c.handleEvent)

	if device.ID != nil {
		if snapshot, err := c.session.Read(); err == nil {
			log.Printf("Found session for %s (paired %s), attempting to resume...",
				snapshot.DeviceJID, snapshot.AuthenticatedAt.Format(time.RFC3339))
		} else {
			log.Println("Found existing session, attempting to resume...")
		}
		err := c.wa.Connect()
		if err == nil {
			return nil
		}
		log.Printf("Failed to resume session: %v", err)
		c.clearDevices()
		device = c.store.NewDevice()
		c.wa = whatsmeow.NewClient(device, nil)
		c.wa.EnableAutoReconnect = false
		c.wa.AddEventHandler(c.handleEvent)
	}

	log.Println("Starting fresh QR flow...")
	qrChan, err := c.wa.GetQRChannel(ctx)
	if err != nil {
		log.Printf("QR channel error: %v", err)
		return err
	}
	if err := c.wa.Connect(); err != nil {
		log.Printf("Client connect error: %v", err)
		return err
	}

	go c.monitorQR(qrChan)

	return nil
}

func (c *Client) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		c.handleMessage(v)

	case *events.PairSuccess:
		log.Printf("Whatsapp is authenticated! device=%s", v.ID)
		if err := c.session.Write(v.ID.String()); err != nil {
			log.Printf("Error writing session file: %v", err)
		}
		if err := c.settings.SetSessionStatus(models.SessionConnected); err != nil {
			log.Printf("Error updating session status: %v", err)
		}
		c.bus.Publish(TopicAuthenticated, "Whatsapp is authenticated!")

	case *events.PairError:
		log.Printf("Pairing failed: %v", v.Error)
		c.bus.Publish(TopicAuthFailure, "Auth failure, restarting...")
		go c.restart()

	case *events.Connected:
		c.mu.Lock()
		c.ready = true
		c.mu.Unlock()
		if err := c.settings.SetSessionStatus(models.SessionConnected); err != nil {
			log.Printf("Error updating session status: %v", err)
		}
		log.Println("Whatsapp is ready!")
		c.bus.Publish(TopicReady, "Whatsapp is ready!")

	case *events.LoggedOut:
		log.Printf("Whatsapp logged out: %v", v.Reason)
		c.bus.Publish(TopicAuthFailure, "Auth failure, restarting...")
		c.handleDisconnect(true)

	case *events.Disconnected:
		log.Println("Whatsapp disconnected!")
		c.bus.Publish(TopicDisconnected, "Whatsapp disconnected!")
		c.handleDisconnect(false)
	}
}

// handleDisconnect tears the session down and schedules a full restart:
// session file removed, status flag flipped, fresh Connecting phase.
func (c *Client) handleDisconnect(clearDevices bool) {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()

	if err := c.session.Delete(); err != nil {
		log.Printf("Error deleting session file: %v", err)
	} else {
		log.Println("Session file deleted!")
	}

	if err := c.settings.SetSessionStatus(models.SessionDisconnected); err != nil {
		log.Printf("Error updating session status: %v", err)
	}

	if clearDevices {
		c.clearDevices()
	}

	go c.restart()
}

// restart reconnects with bounded backoff. Only one restart runs at a time.
func (c *Client) restart() {
	c.restartMu.Lock()
	if c.restarting {
		c.restartMu.Unlock()
		return
	}
	c.restarting = true
	c.restartMu.Unlock()

	defer func() {
		c.restartMu.Lock()
		c.restarting = false
		c.restartMu.Unlock()
	}()

	if c.wa != nil {
		c.wa.Disconnect()
	}

	delay := reconnectBaseDelay
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		log.Printf("Restarting Whatsapp client (attempt %d/%d)...", attempt, maxReconnectAttempts)
		err := c.Connect()
		if err == nil {
			return
		}
		log.Printf("Restart attempt %d failed: %v", attempt, err)

		time.Sleep(delay)
		delay *= 2
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}
	}

	log.Printf("Giving up after %d restart attempts", maxReconnectAttempts)
}

// clearDevices drops all stored credentials.
func (c *Client) clearDevices() {
	if c.store == nil {
		return
	}

	ctx := context.Background()
	devices, err := c.store.GetAllDevices(ctx)
	if err != nil {
		log.Printf("Error getting devices: %v", err)
		return
	}
	for _, device := range devices {
		log.Printf("Clearing device: %s", device.ID)
		if err := c.store.DeleteDevice(ctx, device); err != nil {
			log.Printf("Error deleting device: %v", err)
		}
	}
}

func (c *Client) monitorQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			qrBytes, err := qrcode.Encode(evt.Code, qrcode.Medium, 256)
			if err != nil {
				log.Printf("Error generating QR code: %v", err)
				continue
			}

			dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
			log.Println("QR Code received, scan please!")
			c.bus.Publish(TopicQR, dataURL)

		case "timeout":
			log.Println("QR code timed out, restarting connection...")
			go c.restart()
			return

		case "success":
			return

		default:
			log.Printf("QR channel event: %s", evt.Event)
		}
	}
}

func (c *Client) handleMessage(evt *events.Message) {
	if evt.Info.IsFromMe {
		return
	}

	body := textContent(evt)
	if body == "" {
		return
	}

	// Contact resolution happens before dispatch so the command switch
	// always sees the customer row.
	ctx := context.Background()
	profile := c.resolveContact(ctx, evt.Info.Sender)

	c.commands.Handle(ctx, c, InboundMessage{
		Chat:    evt.Info.Chat,
		Sender:  evt.Info.Sender,
		Body:    body,
		Profile: profile,
	})
}

func (c *Client) resolveContact(ctx context.Context, jid types.JID) services.ContactProfile {
	contact, err := c.wa.Store.Contacts.GetContact(ctx, jid)
	if err != nil {
		log.Printf("Error resolving contact %s: %v", jid, err)
		return services.ContactProfile{}
	}
	if !contact.Found {
		return services.ContactProfile{}
	}

	name := contact.FullName
	if name == "" {
		name = contact.PushName
	}

	return services.ContactProfile{
		Name:       name,
		IsBusiness: contact.BusinessName != "",
	}
}

func textContent(evt *events.Message) string {
	msg := evt.Message
	if msg == nil {
		return ""
	}
	if text := msg.GetExtendedTextMessage().GetText(); text != "" {
		return text
	}
	return msg.GetConversation()
}

// IsReady reports whether the client is authenticated and connected.
func (c *Client) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}
