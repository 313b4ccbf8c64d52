package whatsapp

import (
	"context"
	"log"
	"strings"

	"wa_gateway/internal/models"
	"wa_gateway/internal/services"

	"go.mau.fi/whatsmeow/types"
)

const (
	replyHelp = "Command list *@topup.ngab* bot:\n\n" +
		"*!subscribe*: Subscribe pemberitahuan atau promo-promo menarik\n\n" +
		"*!unsubscribe*: Unsubscribe pemberitahuan atau promo-promo menarik"
	replySubscribe   = "Terimakasih telah berlangganan info-info promo menarik dari kami!"
	replyUnsubscribe = "Berhasil unsubscribe!"
)

// Replier sends a text reply back into the chat the command came from.
type Replier interface {
	SendText(ctx context.Context, to types.JID, text string) (*models.DeliveryReceipt, error)
}

// InboundMessage is a received chat message with its resolved contact info.
type InboundMessage struct {
	Chat    types.JID
	Sender  types.JID
	Body    string
	Profile services.ContactProfile
}

// CommandHandler reacts to bot commands in inbound messages. Every sender
// is registered as a customer first, command or not.
type CommandHandler struct {
	customers *services.CustomerService
}

func NewCommandHandler(customers *services.CustomerService) *CommandHandler {
	return &CommandHandler{customers: customers}
}

func (h *CommandHandler) Handle(ctx context.Context, replier Replier, msg InboundMessage) {
	customer, err := h.customers.FindOrCreateByNumber(msg.Sender.User, msg.Profile)
	if err != nil {
		log.Printf("Error registering customer %s: %v", msg.Sender.User, err)
	}

	fields := strings.Fields(msg.Body)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "!help":
		h.reply(ctx, replier, msg.Chat, replyHelp)

	case "!subscribe":
		if customer != nil {
			if err := h.customers.SetSubscription(customer.ID, true); err != nil {
				log.Printf("Error subscribing customer %s: %v", msg.Sender.User, err)
				return
			}
		}
		h.reply(ctx, replier, msg.Chat, replySubscribe)

	case "!unsubscribe":
		if customer != nil {
			if err := h.customers.SetSubscription(customer.ID, false); err != nil {
				log.Printf("Error unsubscribing customer %s: %v", msg.Sender.User, err)
				return
			}
		}
		h.reply(ctx, replier, msg.Chat, replyUnsubscribe)
	}
}

func (h *CommandHandler) reply(ctx context.Context, replier Replier, chat types.JID, text string) {
	if _, err := replier.SendText(ctx, chat, text); err != nil {
		log.Printf("Error sending reply to %s: %v", chat, err)
	}
}
