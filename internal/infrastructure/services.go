package infrastructure

import (
	"net/url"
	"strconv"

	"trello-mcp-server/internal/domain"
)

// Services bundles every resource service over one shared client and
// validator so the handlers receive a single dependency.
type Services struct {
	Client       *TrelloClient
	Validator    *ValidationService
	Boards       *BoardService
	Lists        *ListService
	Cards        *CardService
	Checklists   *ChecklistService
	Labels       *LabelService
	Comments     *CommentService
	Attachments  *AttachmentService
	Members      *MemberService
	Workspaces   *WorkspaceService
	Webhooks     *WebhookService
	CustomFields *CustomFieldService
	Search       *SearchService
	Batch        *BatchService
}

// NewServices builds the full service set around one client.
func NewServices(client *TrelloClient) *Services {
	validator := NewValidationService(client)
	return &Services{
		Client:       client,
		Validator:    validator,
		Boards:       NewBoardService(client, validator),
		Lists:        NewListService(client, validator),
		Cards:        NewCardService(client, validator),
		Checklists:   NewChecklistService(client, validator),
		Labels:       NewLabelService(client, validator),
		Comments:     NewCommentService(client, validator),
		Attachments:  NewAttachmentService(client, validator),
		Members:      NewMemberService(client),
		Workspaces:   NewWorkspaceService(client, validator),
		Webhooks:     NewWebhookService(client, validator),
		CustomFields: NewCustomFieldService(client, validator),
		Search:       NewSearchService(client),
		Batch:        NewBatchService(client),
	}
}

// WithCredentials returns a service set whose calls authenticate with the
// given pair instead of the configured one. Used for requests that carry
// their own auth argument.
func (s *Services) WithCredentials(credentials *domain.Credentials) *Services {
	return NewServices(s.Client.WithCredentials(credentials))
}

// setParam adds a query parameter when the value is non-empty.
func setParam(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

// setBoolParam adds a boolean query parameter when the value is present.
func setBoolParam(query url.Values, key string, value *bool) {
	if value != nil {
		query.Set(key, strconv.FormatBool(*value))
	}
}

// setIntParam adds an integer query parameter when the value is present.
func setIntParam(query url.Values, key string, value *int) {
	if value != nil {
		query.Set(key, strconv.Itoa(*value))
	}
}

// setStringPtrParam adds a string query parameter when the value is present,
// allowing an explicit empty string to clear a field.
func setStringPtrParam(query url.Values, key string, value *string) {
	if value != nil {
		query.Set(key, *value)
	}
}
