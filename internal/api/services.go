package api

import (
	"github.com/litswap/litswap-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth         *service.AuthService
	Session      *service.SessionService
	Book         *service.BookService
	Discovery    *service.DiscoveryService
	Interest     *service.InterestService
	Notification *service.NotificationService
	Barter       *service.BarterService
	Profile      *service.ProfileService
	Favorite     *service.FavoriteService
	Chat         *service.ChatService
	Search       *service.SearchService
}
