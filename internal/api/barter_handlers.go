package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/litswap/litswap-server/internal/domain"
	"github.com/litswap/litswap-server/internal/service"
)

func (s *Server) registerBarterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "proposeBarter",
		Method:      http.MethodPost,
		Path:        "/api/v1/barters",
		Summary:     "Propose a barter",
		Description: "Offers one of the caller's books in exchange, answering an accepted like notification. The liker is notified of the offer.",
		Tags:        []string{"Barters"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleProposeBarter)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBarters",
		Method:      http.MethodGet,
		Path:        "/api/v1/barters",
		Summary:     "List barters",
		Description: "Returns barter requests where the caller is requester or responder",
		Tags:        []string{"Barters"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBarters)

	huma.Register(s.api, huma.Operation{
		OperationID: "respondToBarter",
		Method:      http.MethodPost,
		Path:        "/api/v1/barters/{id}/respond",
		Summary:     "Respond to a barter",
		Description: "Accepts or rejects a pending barter request. Accepting reveals both parties' contact handles to each other.",
		Tags:        []string{"Barters"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRespondToBarter)
}

// === DTOs ===

// ProposeBarterRequest is the request body for proposing a barter.
type ProposeBarterRequest struct {
	NotificationID string `json:"notification_id" doc:"Accepted like notification this proposal answers"`
	OfferedBookID  string `json:"offered_book_id" doc:"ID of the caller's book to offer"`
}

// ProposeBarterInput wraps the propose request for Huma.
type ProposeBarterInput struct {
	Body ProposeBarterRequest
}

// BarterOutput wraps a single barter request for Huma.
type BarterOutput struct {
	Body *domain.BarterRequest
}

// BartersOutput wraps a list of barter requests for Huma.
type BartersOutput struct {
	Body []*domain.BarterRequest
}

// RespondToBarterRequest is the request body for deciding a barter.
type RespondToBarterRequest struct {
	Action string `json:"action" enum:"accept,reject" doc:"Decision on the barter request"`
}

// RespondToBarterInput wraps the respond request for Huma.
type RespondToBarterInput struct {
	ID   string `path:"id" doc:"Barter request ID"`
	Body RespondToBarterRequest
}

// === Handlers ===

func (s *Server) handleProposeBarter(ctx context.Context, input *ProposeBarterInput) (*BarterOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := service.ProposeBarterRequest{
		NotificationID: input.Body.NotificationID,
		OfferedBookID:  input.Body.OfferedBookID,
	}

	barter, err := s.services.Barter.Propose(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &BarterOutput{Body: barter}, nil
}

func (s *Server) handleListBarters(ctx context.Context, _ *struct{}) (*BartersOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	barters, err := s.services.Barter.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BartersOutput{Body: barters}, nil
}

func (s *Server) handleRespondToBarter(ctx context.Context, input *RespondToBarterInput) (*BarterOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	barter, err := s.services.Barter.Respond(ctx, input.ID, userID, service.BarterAction(input.Body.Action))
	if err != nil {
		return nil, err
	}

	return &BarterOutput{Body: barter}, nil
}
