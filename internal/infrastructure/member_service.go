package infrastructure

import (
	"context"

	"trello-mcp-server/internal/domain"
)

// MemberService reads member profiles. Board and card membership management
// live on their respective services.
type MemberService struct {
	client *TrelloClient
}

// NewMemberService creates a member service.
func NewMemberService(client *TrelloClient) *MemberService {
	return &MemberService{client: client}
}

// GetMember retrieves a member profile. Accepts an ID, a username or "me".
func (s *MemberService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	raw, err := s.client.Get(ctx, "/members/"+memberID, nil)
	if err != nil {
		return nil, err
	}
	var member domain.Member
	if err := decodeJSON(raw, &member); err != nil {
		return nil, err
	}
	return &member, nil
}
