package whatsapp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"wa_gateway/internal/models"
	"wa_gateway/internal/services"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"
)

// IsRegistered checks whether the number behind the JID has an account on
// the network.
func (c *Client) IsRegistered(ctx context.Context, to types.JID) (bool, error) {
	if c.wa == nil || !c.IsReady() {
		return false, fmt.Errorf("whatsapp client is not ready")
	}

	results, err := c.wa.IsOnWhatsApp([]string{"+" + to.User})
	if err != nil {
		return false, fmt.Errorf("check number %s: %w", to.User, err)
	}
	for _, result := range results {
		if result.IsIn {
			return true, nil
		}
	}
	return false, nil
}

// SendText delivers a plain text message and returns the delivery receipt.
func (c *Client) SendText(ctx context.Context, to types.JID, text string) (*models.DeliveryReceipt, error) {
	if c.wa == nil || !c.IsReady() {
		return nil, fmt.Errorf("whatsapp client is not ready")
	}

	resp, err := c.wa.SendMessage(ctx, to, &waE2E.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		return nil, fmt.Errorf("send text to %s: %w", to, err)
	}

	log.Printf("Message sent to %s (id %s)", to, resp.ID)

	return &models.DeliveryReceipt{
		ID:        string(resp.ID),
		To:        to.String(),
		Timestamp: resp.Timestamp.Unix(),
	}, nil
}

// SendMedia uploads the attachment and sends it with an optional caption.
// The message kind follows the attachment mimetype; anything that is not
// image, video, or audio goes out as a document.
func (c *Client) SendMedia(ctx context.Context, to types.JID, att *services.MediaAttachment, caption string) (*models.DeliveryReceipt, error) {
	if c.wa == nil || !c.IsReady() {
		return nil, fmt.Errorf("whatsapp client is not ready")
	}

	mediaType := mediaTypeFor(att.Mimetype)
	uploaded, err := c.wa.Upload(ctx, att.Data, mediaType)
	if err != nil {
		return nil, fmt.Errorf("upload media for %s: %w", to, err)
	}

	msg := &waE2E.Message{}
	switch mediaType {
	case whatsmeow.MediaImage:
		msg.ImageMessage = &waE2E.ImageMessage{
			Caption:       proto.String(caption),
			Mimetype:      proto.String(att.Mimetype),
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
		}
	case whatsmeow.MediaVideo:
		msg.VideoMessage = &waE2E.VideoMessage{
			Caption:       proto.String(caption),
			Mimetype:      proto.String(att.Mimetype),
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
		}
	case whatsmeow.MediaAudio:
		msg.AudioMessage = &waE2E.AudioMessage{
			Mimetype:      proto.String(att.Mimetype),
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
		}
	default:
		msg.DocumentMessage = &waE2E.DocumentMessage{
			Caption:       proto.String(caption),
			Title:         proto.String(att.Filename),
			FileName:      proto.String(att.Filename),
			Mimetype:      proto.String(att.Mimetype),
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
		}
	}

	resp, err := c.wa.SendMessage(ctx, to, msg)
	if err != nil {
		return nil, fmt.Errorf("send media to %s: %w", to, err)
	}

	log.Printf("Media sent to %s (id %s, %s)", to, resp.ID, att.Mimetype)

	return &models.DeliveryReceipt{
		ID:        string(resp.ID),
		To:        to.String(),
		Timestamp: resp.Timestamp.Unix(),
	}, nil
}

func mediaTypeFor(mimetype string) whatsmeow.MediaType {
	switch {
	case strings.HasPrefix(mimetype, "image/"):
		return whatsmeow.MediaImage
	case strings.HasPrefix(mimetype, "video/"):
		return whatsmeow.MediaVideo
	case strings.HasPrefix(mimetype, "audio/"):
		return whatsmeow.MediaAudio
	default:
		return whatsmeow.MediaDocument
	}
}
