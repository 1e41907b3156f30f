package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"

	"trello-mcp-server/internal/domain"
)

// AttachmentService manages card attachments. Only URL attachments are
// supported; file uploads need multipart handling the server does not do.
type AttachmentService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewAttachmentService creates an attachment service.
func NewAttachmentService(client *TrelloClient, validator *ValidationService) *AttachmentService {
	return &AttachmentService{client: client, validator: validator}
}

// GetAttachments retrieves all attachments on a card.
func (s *AttachmentService) GetAttachments(ctx context.Context, cardID string) ([]domain.Attachment, error) {
	raw, err := s.client.Get(ctx, "/cards/"+cardID+"/attachments", nil)
	if err != nil {
		return nil, err
	}
	var attachments []domain.Attachment
	if err := decodeJSON(raw, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// GetAttachment retrieves a single attachment on a card.
func (s *AttachmentService) GetAttachment(ctx context.Context, cardID, attachmentID string) (*domain.Attachment, error) {
	raw, err := s.client.Get(ctx, "/cards/"+cardID+"/attachments/"+attachmentID, nil)
	if err != nil {
		return nil, err
	}
	var attachment domain.Attachment
	if err := decodeJSON(raw, &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// AttachURL attaches a link to a card. The URL must be a valid HTTP or HTTPS
// address.
func (s *AttachmentService) AttachURL(ctx context.Context, cardID, attachmentURL, name string) (*domain.Attachment, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateURL(attachmentURL, "attachment URL"); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("url", attachmentURL)
	setParam(query, "name", name)

	raw, err := s.client.Post(ctx, "/cards/"+cardID+"/attachments", query, nil)
	if err != nil {
		return nil, err
	}
	var attachment domain.Attachment
	if err := decodeJSON(raw, &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DeleteAttachment removes an attachment from a card.
func (s *AttachmentService) DeleteAttachment(ctx context.Context, cardID, attachmentID string) (json.RawMessage, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/cards/"+cardID+"/attachments/"+attachmentID, nil)
}

// SetCover makes an image attachment the card's cover. An empty attachment
// ID clears the cover.
func (s *AttachmentService) SetCover(ctx context.Context, cardID, attachmentID string) (*domain.Card, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("idAttachmentCover", attachmentID)

	raw, err := s.client.Put(ctx, "/cards/"+cardID, query, nil)
	if err != nil {
		return nil, err
	}
	var card domain.Card
	if err := decodeJSON(raw, &card); err != nil {
		return nil, err
	}
	return &card, nil
}
