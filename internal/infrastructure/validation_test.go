package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trello-mcp-server/internal/domain"
)

const validBoardID = "507f1f77bcf86cd799439011"

func newValidationService(server *httptest.Server) *ValidationService {
	client, _ := newTestClient(server)
	return NewValidationService(client)
}

func TestValidationService_ValidateIDFormat(t *testing.T) {
	service := NewValidationService(nil)

	tests := []struct {
		name        string
		resourceID  string
		expectError bool
		fragment    string
	}{
		{"valid 24-char hex", validBoardID, false, ""},
		{"empty ID", "", true, "Board ID cannot be empty"},
		{"too short", "507f1f77", true, "Invalid Board ID format"},
		{"too long", validBoardID + "ab", true, "Invalid Board ID format"},
		{"uppercase hex rejected", "507F1F77BCF86CD799439011", true, "Invalid Board ID format"},
		{"non-hex characters", "507f1f77bcf86cd79943901z", true, "Invalid Board ID format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateIDFormat(tt.resourceID, "Board")
			if !tt.expectError {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %T", err)
			}
			if !contains(validationErr.Message, tt.fragment) {
				t.Errorf("Expected message to contain %q, got %q", tt.fragment, validationErr.Message)
			}
		})
	}
}

func TestValidationService_ValidateBoardExists(t *testing.T) {
	var seenFields string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenFields = r.URL.Query().Get("fields")
		if r.URL.Path == "/boards/"+validBoardID {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id":"` + validBoardID + `","closed":false}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := newValidationService(server)

	if err := service.ValidateBoardExists(context.Background(), validBoardID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if seenFields != "id,closed" {
		t.Errorf("Expected probe to request id,closed fields, got %s", seenFields)
	}
}

// An invalid ID format fails locally without any network round trip.
func TestValidationService_InvalidFormatSkipsNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"x"}`))
	}))
	defer server.Close()

	service := newValidationService(server)

	err := service.ValidateBoardExists(context.Background(), "not-a-valid-id")
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if calls != 0 {
		t.Errorf("Expected no HTTP calls, got %d", calls)
	}
}

func TestValidationService_ValidateBoardExists_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("board not found"))
	}))
	defer server.Close()

	service := newValidationService(server)

	err := service.ValidateBoardExists(context.Background(), validBoardID)
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %T", err)
	}
	if notFound.ResourceType != "Board" {
		t.Errorf("Expected resource type Board, got %s", notFound.ResourceType)
	}
	if notFound.ResourceID != validBoardID {
		t.Errorf("Expected resource ID %s, got %s", validBoardID, notFound.ResourceID)
	}
}

func TestValidationService_ValidateBoardExists_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("unauthorized permission requested"))
	}))
	defer server.Close()

	service := newValidationService(server)

	err := service.ValidateBoardExists(context.Background(), validBoardID)
	var forbidden *domain.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("Expected ForbiddenError, got %T", err)
	}
	if forbidden.ResourceID != validBoardID {
		t.Errorf("Expected resource ID %s, got %s", validBoardID, forbidden.ResourceID)
	}
	if forbidden.Action != "access" {
		t.Errorf("Expected action access, got %s", forbidden.Action)
	}
}

func TestValidationService_ValidateBoardExists_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid key"))
	}))
	defer server.Close()

	service := newValidationService(server)

	err := service.ValidateBoardExists(context.Background(), validBoardID)
	var unauthorized *domain.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("Expected UnauthorizedError, got %T", err)
	}
}

func TestValidationService_ValidateCardExists(t *testing.T) {
	cardID := "607f1f77bcf86cd799439022"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cards/"+cardID {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id":"` + cardID + `"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := newValidationService(server)

	if err := service.ValidateCardExists(context.Background(), cardID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestValidationService_ValidateBoardAdminPermission(t *testing.T) {
	tests := []struct {
		name        string
		memberships string
		expectAdmin bool
	}{
		{"admin membership", `[{"id":"m1","idMember":"u1","memberType":"admin"}]`, true},
		{"normal membership only", `[{"id":"m1","idMember":"u1","memberType":"normal"}]`, false},
		{"no memberships", `[]`, false},
		{"admin among several", `[{"memberType":"normal"},{"memberType":"admin"}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/boards/"+validBoardID+"/memberships" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("member") != "true" {
					t.Errorf("Expected member=true query, got %s", r.URL.Query().Get("member"))
				}
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tt.memberships))
			}))
			defer server.Close()

			service := newValidationService(server)

			err := service.ValidateBoardAdminPermission(context.Background(), validBoardID)
			if tt.expectAdmin {
				if err != nil {
					t.Fatalf("Expected admin permission, got %v", err)
				}
				return
			}
			var forbidden *domain.ForbiddenError
			if !errors.As(err, &forbidden) {
				t.Fatalf("Expected ForbiddenError, got %T", err)
			}
			if forbidden.Action != "modify (admin permission required)" {
				t.Errorf("Unexpected action: %s", forbidden.Action)
			}
		})
	}
}

func TestValidationService_ValidateOrganizationMembership(t *testing.T) {
	orgID := "807f1f77bcf86cd799439044"

	t.Run("member", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/organizations/"+orgID+"/members/me" {
				t.Errorf("Unexpected path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id":"u1"}`))
		}))
		defer server.Close()

		service := newValidationService(server)
		if err := service.ValidateOrganizationMembership(context.Background(), orgID, ""); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})

	t.Run("not a member", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("membership not found"))
		}))
		defer server.Close()

		service := newValidationService(server)
		err := service.ValidateOrganizationMembership(context.Background(), orgID, "")
		var forbidden *domain.ForbiddenError
		if !errors.As(err, &forbidden) {
			t.Fatalf("Expected ForbiddenError, got %T", err)
		}
		if forbidden.Action != "access (membership required)" {
			t.Errorf("Unexpected action: %s", forbidden.Action)
		}
	})
}

func TestValidationService_EnumValidators(t *testing.T) {
	service := NewValidationService(nil)

	t.Run("permission level", func(t *testing.T) {
		for _, level := range []string{"private", "org", "public"} {
			if err := service.ValidatePermissionLevel(level); err != nil {
				t.Errorf("Expected %s to be valid, got %v", level, err)
			}
		}
		err := service.ValidatePermissionLevel("secret")
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("Expected ValidationError, got %T", err)
		}
		if !contains(validationErr.Message, "Invalid permission level 'secret'") {
			t.Errorf("Unexpected message: %s", validationErr.Message)
		}
	})

	t.Run("comments permission", func(t *testing.T) {
		for _, permission := range []string{"disabled", "members", "observers", "org", "public"} {
			if err := service.ValidateCommentsPermission(permission); err != nil {
				t.Errorf("Expected %s to be valid, got %v", permission, err)
			}
		}
		if err := service.ValidateCommentsPermission("everyone"); err == nil {
			t.Error("Expected error for invalid comments permission")
		}
	})

	t.Run("voting permission", func(t *testing.T) {
		if err := service.ValidateVotingPermission("members"); err != nil {
			t.Errorf("Expected members to be valid, got %v", err)
		}
		if err := service.ValidateVotingPermission("anyone"); err == nil {
			t.Error("Expected error for invalid voting permission")
		}
	})

	t.Run("board filter", func(t *testing.T) {
		for _, filter := range []string{"all", "open", "closed", "members", "organization", "public"} {
			if err := service.ValidateBoardFilter(filter); err != nil {
				t.Errorf("Expected %s to be valid, got %v", filter, err)
			}
		}
		if err := service.ValidateBoardFilter("archived"); err == nil {
			t.Error("Expected error for invalid board filter")
		}
	})

	t.Run("label color", func(t *testing.T) {
		if err := service.ValidateColor(""); err != nil {
			t.Errorf("Expected empty color to be valid, got %v", err)
		}
		for _, color := range []string{"yellow", "purple", "blue", "red", "green", "orange", "black", "sky", "pink", "lime"} {
			if err := service.ValidateColor(color); err != nil {
				t.Errorf("Expected %s to be valid, got %v", color, err)
			}
		}
		err := service.ValidateColor("magenta")
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("Expected ValidationError, got %T", err)
		}
		if !contains(validationErr.Message, "Invalid color 'magenta'") {
			t.Errorf("Unexpected message: %s", validationErr.Message)
		}
	})
}

func TestValidationService_ValidateURL(t *testing.T) {
	service := NewValidationService(nil)

	valid := []string{
		"https://example.com",
		"https://example.com/path/to/page?query=1",
		"http://localhost:8080/webhook",
		"http://192.168.1.10/callback",
	}
	for _, rawURL := range valid {
		if err := service.ValidateURL(rawURL, "callback URL"); err != nil {
			t.Errorf("Expected %s to be valid, got %v", rawURL, err)
		}
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.com/file",
		"https://",
		"//missing-scheme.com",
	}
	for _, rawURL := range invalid {
		err := service.ValidateURL(rawURL, "callback URL")
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("Expected ValidationError for %q, got %T", rawURL, err)
			continue
		}
		if !contains(validationErr.Message, "Invalid callback URL format") {
			t.Errorf("Unexpected message: %s", validationErr.Message)
		}
	}
}
