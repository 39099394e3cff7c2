package internal

import (
	"net/http"
	"streakd/internal/controllers"
	"streakd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/subjects", http.HandlerFunc(apiController.GetSubjects))
	routers.Post("/subjects", http.HandlerFunc(apiController.PutSubject))
	routers.Get("/calendar", http.HandlerFunc(apiController.GetCalendar))
	routers.Post("/calendar", http.HandlerFunc(apiController.ReceiveCalendar))
	routers.Get("/profile", http.HandlerFunc(apiController.GetProfile))
	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Post("/refresh", http.HandlerFunc(apiController.RefreshSubject))
	return routers
}
