package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"

	"trello-mcp-server/internal/domain"
)

// CreateWebhookOptions carries the parameters for registering a webhook.
type CreateWebhookOptions struct {
	CallbackURL string
	IDModel     string
	Description string
	Active      *bool
}

// UpdateWebhookOptions carries the parameters for updating a webhook.
type UpdateWebhookOptions struct {
	CallbackURL string
	IDModel     string
	Description string
	Active      *bool
}

// WebhookService manages webhook registrations. The server registers and
// administers webhooks but does not receive their callbacks.
type WebhookService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewWebhookService creates a webhook service.
func NewWebhookService(client *TrelloClient, validator *ValidationService) *WebhookService {
	return &WebhookService{client: client, validator: validator}
}

// CreateWebhook registers a webhook watching the given model.
func (s *WebhookService) CreateWebhook(ctx context.Context, opts CreateWebhookOptions) (*domain.Webhook, error) {
	if err := s.validator.ValidateURL(opts.CallbackURL, "callback URL"); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateIDFormat(opts.IDModel, "Model"); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("callbackURL", opts.CallbackURL)
	query.Set("idModel", opts.IDModel)
	setParam(query, "description", opts.Description)
	setBoolParam(query, "active", opts.Active)

	raw, err := s.client.Post(ctx, "/webhooks/", query, nil)
	if err != nil {
		return nil, err
	}
	var webhook domain.Webhook
	if err := decodeJSON(raw, &webhook); err != nil {
		return nil, err
	}
	return &webhook, nil
}

// GetWebhook retrieves a webhook by ID.
func (s *WebhookService) GetWebhook(ctx context.Context, webhookID string) (*domain.Webhook, error) {
	raw, err := s.client.Get(ctx, "/webhooks/"+webhookID, nil)
	if err != nil {
		return nil, err
	}
	var webhook domain.Webhook
	if err := decodeJSON(raw, &webhook); err != nil {
		return nil, err
	}
	return &webhook, nil
}

// ListWebhooks retrieves every webhook registered for the configured token.
func (s *WebhookService) ListWebhooks(ctx context.Context) ([]domain.Webhook, error) {
	if s.client.credentials == nil {
		return nil, &domain.UnauthorizedError{}
	}

	raw, err := s.client.Get(ctx, "/tokens/"+s.client.credentials.Token+"/webhooks", nil)
	if err != nil {
		return nil, err
	}
	var webhooks []domain.Webhook
	if err := decodeJSON(raw, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

// UpdateWebhook changes a webhook's callback, model, description or active
// state.
func (s *WebhookService) UpdateWebhook(ctx context.Context, webhookID string, opts UpdateWebhookOptions) (*domain.Webhook, error) {
	if err := s.validator.ValidateIDFormat(webhookID, "Webhook"); err != nil {
		return nil, err
	}
	if opts.CallbackURL != "" {
		if err := s.validator.ValidateURL(opts.CallbackURL, "callback URL"); err != nil {
			return nil, err
		}
	}
	if opts.IDModel != "" {
		if err := s.validator.ValidateIDFormat(opts.IDModel, "Model"); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	setParam(query, "callbackURL", opts.CallbackURL)
	setParam(query, "idModel", opts.IDModel)
	setParam(query, "description", opts.Description)
	setBoolParam(query, "active", opts.Active)

	raw, err := s.client.Put(ctx, "/webhooks/"+webhookID, query, nil)
	if err != nil {
		return nil, err
	}
	var webhook domain.Webhook
	if err := decodeJSON(raw, &webhook); err != nil {
		return nil, err
	}
	return &webhook, nil
}

// DeleteWebhook removes a webhook registration.
func (s *WebhookService) DeleteWebhook(ctx context.Context, webhookID string) (json.RawMessage, error) {
	if err := s.validator.ValidateIDFormat(webhookID, "Webhook"); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/webhooks/"+webhookID, nil)
}
