package domain

// Board represents a Trello board.
// This is the main entity returned by board API operations.
type Board struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Desc           string      `json:"desc,omitempty"`
	Closed         bool        `json:"closed"`
	IDOrganization string      `json:"idOrganization,omitempty"`
	URL            string      `json:"url,omitempty"`
	ShortURL       string      `json:"shortUrl,omitempty"`
	Prefs          *BoardPrefs `json:"prefs,omitempty"`
}

// BoardPrefs carries the board preference block (visibility, voting, comments).
type BoardPrefs struct {
	PermissionLevel string `json:"permissionLevel,omitempty"`
	Voting          string `json:"voting,omitempty"`
	Comments        string `json:"comments,omitempty"`
	Background      string `json:"background,omitempty"`
}

// List represents a list (column) on a Trello board.
type List struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Closed     bool    `json:"closed"`
	IDBoard    string  `json:"idBoard"`
	Pos        float64 `json:"pos,omitempty"`
	Subscribed bool    `json:"subscribed,omitempty"`
}

// Card represents a Trello card.
type Card struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Desc        string   `json:"desc,omitempty"`
	Closed      bool     `json:"closed"`
	IDList      string   `json:"idList"`
	IDBoard     string   `json:"idBoard"`
	URL         string   `json:"url,omitempty"`
	ShortURL    string   `json:"shortUrl,omitempty"`
	Pos         float64  `json:"pos,omitempty"`
	Due         *string  `json:"due"` // ISO 8601, null when unset
	DueComplete bool     `json:"dueComplete,omitempty"`
	Start       *string  `json:"start,omitempty"`
	Subscribed  bool     `json:"subscribed,omitempty"`
	IDMembers   []string `json:"idMembers,omitempty"`
	IDLabels    []string `json:"idLabels,omitempty"`
	Labels      []Label  `json:"labels,omitempty"`
}

// Checklist represents a checklist attached to a card.
type Checklist struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	IDCard     string      `json:"idCard"`
	IDBoard    string      `json:"idBoard,omitempty"`
	Pos        float64     `json:"pos,omitempty"`
	CheckItems []CheckItem `json:"checkItems,omitempty"`
}

// CheckItem represents a single item inside a checklist.
// State is "complete" or "incomplete".
type CheckItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	State       string  `json:"state"`
	IDChecklist string  `json:"idChecklist,omitempty"`
	Pos         float64 `json:"pos,omitempty"`
	Due         *string `json:"due,omitempty"`
}

// Label represents a board label.
type Label struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"` // empty string means uncolored
	IDBoard string `json:"idBoard,omitempty"`
}

// Action represents a Trello action record. Comments are actions with
// type "commentCard"; the comment text lives in Data.Text.
type Action struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	Date            string      `json:"date,omitempty"`
	IDMemberCreator string      `json:"idMemberCreator,omitempty"`
	Data            *ActionData `json:"data,omitempty"`
	MemberCreator   *Member     `json:"memberCreator,omitempty"`
}

// ActionData carries the payload of an action (comment text, affected
// board/card/list references).
type ActionData struct {
	Text  string     `json:"text,omitempty"`
	Board *EntityRef `json:"board,omitempty"`
	Card  *EntityRef `json:"card,omitempty"`
	List  *EntityRef `json:"list,omitempty"`
}

// EntityRef is a lightweight id/name reference embedded in action data.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Attachment represents a file or URL attached to a card.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType,omitempty"`
	Date     string `json:"date,omitempty"`
	IsUpload bool   `json:"isUpload"`
	IDMember string `json:"idMember,omitempty"`
}

// Member represents a Trello member (user).
type Member struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName,omitempty"`
	Username   string `json:"username"`
	Initials   string `json:"initials,omitempty"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	MemberType string `json:"memberType,omitempty"`
	Confirmed  bool   `json:"confirmed,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Membership links a member to a board or workspace with a role.
// MemberType is "admin", "normal", or "observer".
type Membership struct {
	ID          string `json:"id"`
	IDMember    string `json:"idMember"`
	MemberType  string `json:"memberType"`
	Unconfirmed bool   `json:"unconfirmed,omitempty"`
	Deactivated bool   `json:"deactivated,omitempty"`
}

// Organization represents a Trello workspace.
// The API still calls workspaces "organizations" in every endpoint.
type Organization struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Desc        string       `json:"desc,omitempty"`
	URL         string       `json:"url,omitempty"`
	Website     string       `json:"website,omitempty"`
	IDBoards    []string     `json:"idBoards,omitempty"`
	Memberships []Membership `json:"memberships,omitempty"`
}

// Webhook represents a registered Trello webhook.
type Webhook struct {
	ID                  string  `json:"id"`
	Description         string  `json:"description,omitempty"`
	IDModel             string  `json:"idModel"`
	CallbackURL         string  `json:"callbackURL"`
	Active              bool    `json:"active"`
	ConsecutiveFailures int     `json:"consecutiveFailures,omitempty"`
	FirstFailureDate    *string `json:"firstConsecutiveFailDate,omitempty"`
}

// CustomField represents a custom field definition on a board.
// Type is one of "checkbox", "date", "list", "number", "text".
type CustomField struct {
	ID      string              `json:"id"`
	IDModel string              `json:"idModel"`
	Name    string              `json:"name"`
	Type    string              `json:"type"`
	Pos     float64             `json:"pos,omitempty"`
	Display *CustomFieldDisplay `json:"display,omitempty"`
	Options []CustomFieldOption `json:"options,omitempty"`
}

// CustomFieldDisplay controls whether a field value shows on the card front.
type CustomFieldDisplay struct {
	CardFront bool `json:"cardFront"`
}

// CustomFieldOption is a dropdown option for a "list"-type custom field.
type CustomFieldOption struct {
	ID            string            `json:"id,omitempty"`
	IDCustomField string            `json:"idCustomField,omitempty"`
	Value         map[string]string `json:"value"` // e.g. {"text": "High"}
	Color         string            `json:"color,omitempty"`
	Pos           float64           `json:"pos,omitempty"`
}

// CustomFieldItem is a custom field value set on a specific card.
// Value is keyed by the field type (e.g. {"text": "v"}, {"number": "3"});
// dropdown selections use IDValue instead.
type CustomFieldItem struct {
	ID            string            `json:"id"`
	IDCustomField string            `json:"idCustomField"`
	IDModel       string            `json:"idModel"`
	ModelType     string            `json:"modelType,omitempty"`
	Value         map[string]string `json:"value,omitempty"`
	IDValue       string            `json:"idValue,omitempty"`
}

// SearchResults represents the response of the /search endpoint.
// Only the model types requested are populated.
type SearchResults struct {
	Cards         []Card         `json:"cards,omitempty"`
	Boards        []Board        `json:"boards,omitempty"`
	Members       []Member       `json:"members,omitempty"`
	Organizations []Organization `json:"organizations,omitempty"`
	Options       *SearchOptions `json:"options,omitempty"`
}

// SearchOptions echoes the effective search parameters back from the API.
type SearchOptions struct {
	Terms      []SearchTerm `json:"terms,omitempty"`
	Partial    bool         `json:"partial,omitempty"`
	ModelTypes []string     `json:"modelTypes,omitempty"`
}

// SearchTerm is a single parsed term of a search query.
type SearchTerm struct {
	Text string `json:"text"`
}

// OrganizationExport represents a workspace export job.
// State progresses through the Trello export pipeline and ends in a
// download URL when complete.
type OrganizationExport struct {
	ID             string `json:"id"`
	IDOrganization string `json:"idOrganization,omitempty"`
	State          string `json:"state,omitempty"`
	ExportURL      string `json:"exportUrl,omitempty"`
	StartedAt      string `json:"startedAt,omitempty"`
}

// BatchResponse is a single entry of a /batch call result. Trello wraps each
// sub-response either under a "200" key on success or with name/message on
// failure.
type BatchResponse struct {
	OK         interface{} `json:"200,omitempty"`
	StatusCode int         `json:"statusCode,omitempty"`
	Name       string      `json:"name,omitempty"`
	Message    string      `json:"message,omitempty"`
}
