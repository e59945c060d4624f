package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/litswap/litswap-server/internal/domain"
	"github.com/litswap/litswap-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user profile",
		Description: "Returns the authenticated user's profile and listed books",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Updates profile fields. Changing the password revokes all sessions.",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAccount",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/me",
		Summary:     "Delete account",
		Description: "Deletes the account and everything attached to it: listings, likes, notifications, barters, and sessions",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAccount)
}

// === DTOs ===

// ProfileResponse contains the user's profile and their listed books.
type ProfileResponse struct {
	User  UserResponse   `json:"user" doc:"Profile information"`
	Books []*domain.Book `json:"books" doc:"Books the user has listed"`
}

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// UpdateProfileRequest is the request body for profile updates.
// Only the fields present in the request are changed.
type UpdateProfileRequest struct {
	DisplayName   *string `json:"display_name,omitempty" doc:"New display name"`
	ContactHandle *string `json:"contact_handle,omitempty" doc:"New contact handle"`
	Age           *int    `json:"age,omitempty" doc:"New age"`
	Occupation    *string `json:"occupation,omitempty" doc:"New occupation"`
	Institution   *string `json:"institution,omitempty" doc:"New school or workplace"`
	Password      *string `json:"password,omitempty" doc:"New password (revokes all sessions)"`
}

// UpdateProfileInput wraps the update request for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{
		Body: ProfileResponse{
			User:  mapUserResponse(profile.User),
			Books: profile.Books,
		},
	}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.UpdateProfileRequest{
		DisplayName:   input.Body.DisplayName,
		ContactHandle: input.Body.ContactHandle,
		Age:           input.Body.Age,
		Occupation:    input.Body.Occupation,
		Institution:   input.Body.Institution,
		Password:      input.Body.Password,
	}

	user, err := s.services.Profile.Update(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleDeleteAccount(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Profile.Delete(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Account deleted"}}, nil
}
