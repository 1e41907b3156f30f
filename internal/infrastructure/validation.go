package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"trello-mcp-server/internal/domain"
)

// Trello IDs are 24-character hexadecimal strings.
var trelloIDPattern = regexp.MustCompile(`^[a-f0-9]{24}$`)

var (
	validPermissionLevels   = []string{"private", "org", "public"}
	validCommentPermissions = []string{"disabled", "members", "observers", "org", "public"}
	validVotingPermissions  = []string{"disabled", "members", "observers", "org", "public"}
	validBoardFilters       = []string{"all", "open", "closed", "members", "organization", "public"}
	validLabelColors        = []string{"yellow", "purple", "blue", "red", "green", "orange", "black", "sky", "pink", "lime"}
)

// ValidationService checks resource existence, permissions and enum values
// before an operation hits the Trello API for real. Format checks are local;
// existence and permission checks probe the API with minimal field lists.
type ValidationService struct {
	client domain.TrelloAPI
}

// NewValidationService creates a validation service backed by the given client.
func NewValidationService(client domain.TrelloAPI) *ValidationService {
	return &ValidationService{client: client}
}

// WithClient returns a copy of the service bound to a different client, used
// when a request carries its own credentials.
func (s *ValidationService) WithClient(client domain.TrelloAPI) *ValidationService {
	return &ValidationService{client: client}
}

// ValidateIDFormat checks that an ID looks like a Trello ID without touching
// the network.
func (s *ValidationService) ValidateIDFormat(resourceID, resourceType string) error {
	if resourceID == "" {
		return &domain.ValidationError{Message: fmt.Sprintf("%s ID cannot be empty", resourceType)}
	}
	if !trelloIDPattern.MatchString(resourceID) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Invalid %s ID format. Expected 24-character hexadecimal string, got: %s", resourceType, resourceID),
		}
	}
	return nil
}

// ValidateBoardExists verifies that a board exists and is accessible.
func (s *ValidationService) ValidateBoardExists(ctx context.Context, boardID string) error {
	if err := s.ValidateIDFormat(boardID, "Board"); err != nil {
		return err
	}
	query := url.Values{}
	query.Set("fields", "id,closed")
	_, err := s.client.Get(ctx, "/boards/"+boardID, query)
	return retagProbeError(err, "Board", boardID)
}

// ValidateListExists verifies that a list exists and is accessible.
func (s *ValidationService) ValidateListExists(ctx context.Context, listID string) error {
	if err := s.ValidateIDFormat(listID, "List"); err != nil {
		return err
	}
	query := url.Values{}
	query.Set("fields", "id")
	_, err := s.client.Get(ctx, "/lists/"+listID, query)
	return retagProbeError(err, "List", listID)
}

// ValidateCardExists verifies that a card exists and is accessible.
func (s *ValidationService) ValidateCardExists(ctx context.Context, cardID string) error {
	if err := s.ValidateIDFormat(cardID, "Card"); err != nil {
		return err
	}
	query := url.Values{}
	query.Set("fields", "id")
	_, err := s.client.Get(ctx, "/cards/"+cardID, query)
	return retagProbeError(err, "Card", cardID)
}

// ValidateChecklistExists verifies that a checklist exists and is accessible.
func (s *ValidationService) ValidateChecklistExists(ctx context.Context, checklistID string) error {
	if err := s.ValidateIDFormat(checklistID, "Checklist"); err != nil {
		return err
	}
	query := url.Values{}
	query.Set("fields", "id")
	_, err := s.client.Get(ctx, "/checklists/"+checklistID, query)
	return retagProbeError(err, "Checklist", checklistID)
}

// ValidateOrganizationExists verifies that a workspace exists and is
// accessible.
func (s *ValidationService) ValidateOrganizationExists(ctx context.Context, organizationID string) error {
	if err := s.ValidateIDFormat(organizationID, "Organization"); err != nil {
		return err
	}
	query := url.Values{}
	query.Set("fields", "id")
	_, err := s.client.Get(ctx, "/organizations/"+organizationID, query)
	return retagProbeError(err, "Organization", organizationID)
}

// ValidateBoardAdminPermission verifies that the authenticated user holds the
// admin role on a board. Destructive board operations require it.
func (s *ValidationService) ValidateBoardAdminPermission(ctx context.Context, boardID string) error {
	query := url.Values{}
	query.Set("member", "true")
	query.Set("member_fields", "id")
	raw, err := s.client.Get(ctx, "/boards/"+boardID+"/memberships", query)
	if err != nil {
		return retagProbeError(err, "Board", boardID)
	}

	var memberships []domain.Membership
	if err := decodeJSON(raw, &memberships); err != nil {
		return err
	}
	for _, membership := range memberships {
		if membership.MemberType == "admin" {
			return nil
		}
	}
	return &domain.ForbiddenError{ResourceType: "Board", ResourceID: boardID, Action: "modify (admin permission required)"}
}

// ValidateOrganizationMembership verifies that a member belongs to a
// workspace. A 404 from the membership probe means the caller is not a
// member, which surfaces as a permission problem rather than a missing
// resource.
func (s *ValidationService) ValidateOrganizationMembership(ctx context.Context, organizationID, memberID string) error {
	if memberID == "" {
		memberID = "me"
	}
	query := url.Values{}
	query.Set("fields", "id")
	_, err := s.client.Get(ctx, "/organizations/"+organizationID+"/members/"+memberID, query)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return &domain.ForbiddenError{ResourceType: "Organization", ResourceID: organizationID, Action: "access (membership required)"}
		}
		var forbidden *domain.ForbiddenError
		if errors.As(err, &forbidden) {
			return &domain.ForbiddenError{ResourceType: "Organization", ResourceID: organizationID, Action: "access"}
		}
		return err
	}
	return nil
}

// ValidatePermissionLevel checks a board permission level value.
func (s *ValidationService) ValidatePermissionLevel(level string) error {
	if !oneOf(level, validPermissionLevels) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Invalid permission level '%s'. Must be one of: %s", level, strings.Join(validPermissionLevels, ", ")),
		}
	}
	return nil
}

// ValidateCommentsPermission checks a board comments permission value.
func (s *ValidationService) ValidateCommentsPermission(permission string) error {
	if !oneOf(permission, validCommentPermissions) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Invalid comments permission '%s'. Must be one of: %s", permission, strings.Join(validCommentPermissions, ", ")),
		}
	}
	return nil
}

// ValidateVotingPermission checks a board voting permission value.
func (s *ValidationService) ValidateVotingPermission(permission string) error {
	if !oneOf(permission, validVotingPermissions) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Invalid voting permission '%s'. Must be one of: %s", permission, strings.Join(validVotingPermissions, ", ")),
		}
	}
	return nil
}

// ValidateBoardFilter checks a board listing filter value.
func (s *ValidationService) ValidateBoardFilter(filter string) error {
	if !oneOf(filter, validBoardFilters) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Invalid board filter '%s'. Must be one of: %s", filter, strings.Join(validBoardFilters, ", ")),
		}
	}
	return nil
}

// ValidateColor checks a label color. The empty string is allowed and means
// no color.
func (s *ValidationService) ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !oneOf(color, validLabelColors) {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Invalid color '%s'. Must be one of: %s, or null", color, strings.Join(validLabelColors, ", ")),
		}
	}
	return nil
}

// ValidateURL checks that a value is a usable HTTP or HTTPS URL.
func (s *ValidationService) ValidateURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Invalid %s format. Must be a valid HTTP or HTTPS URL.", fieldName),
		}
	}
	return nil
}

// retagProbeError rewrites a classified client error so it names the resource
// being validated instead of the probe endpoint. Other errors pass through
// unchanged.
func retagProbeError(err error, resourceType, resourceID string) error {
	if err == nil {
		return nil
	}
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return &domain.NotFoundError{ResourceType: resourceType, ResourceID: resourceID}
	}
	var forbidden *domain.ForbiddenError
	if errors.As(err, &forbidden) {
		return &domain.ForbiddenError{ResourceType: resourceType, ResourceID: resourceID, Action: "access"}
	}
	return err
}

func oneOf(value string, valid []string) bool {
	for _, v := range valid {
		if v == value {
			return true
		}
	}
	return false
}
