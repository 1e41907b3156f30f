package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"

	"trello-mcp-server/internal/domain"
)

// CommentService manages card comments, which Trello models as actions.
type CommentService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewCommentService creates a comment service.
func NewCommentService(client *TrelloClient, validator *ValidationService) *CommentService {
	return &CommentService{client: client, validator: validator}
}

// AddComment posts a comment on a card.
func (s *CommentService) AddComment(ctx context.Context, cardID, text string) (*domain.Action, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("text", text)

	raw, err := s.client.Post(ctx, "/cards/"+cardID+"/actions/comments", query, nil)
	if err != nil {
		return nil, err
	}
	var action domain.Action
	if err := decodeJSON(raw, &action); err != nil {
		return nil, err
	}
	return &action, nil
}

// GetComments retrieves the comments on a card, newest first.
func (s *CommentService) GetComments(ctx context.Context, cardID string, limit *int) ([]domain.Action, error) {
	query := url.Values{}
	query.Set("filter", "commentCard")
	setIntParam(query, "limit", limit)

	raw, err := s.client.Get(ctx, "/cards/"+cardID+"/actions", query)
	if err != nil {
		return nil, err
	}
	var actions []domain.Action
	if err := decodeJSON(raw, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// UpdateComment edits the text of an existing comment.
func (s *CommentService) UpdateComment(ctx context.Context, actionID, text string) (*domain.Action, error) {
	if err := s.validator.ValidateIDFormat(actionID, "Comment"); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("text", text)

	raw, err := s.client.Put(ctx, "/actions/"+actionID, query, nil)
	if err != nil {
		return nil, err
	}
	var action domain.Action
	if err := decodeJSON(raw, &action); err != nil {
		return nil, err
	}
	return &action, nil
}

// DeleteComment removes a comment.
func (s *CommentService) DeleteComment(ctx context.Context, actionID string) (json.RawMessage, error) {
	if err := s.validator.ValidateIDFormat(actionID, "Comment"); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/actions/"+actionID, nil)
}
