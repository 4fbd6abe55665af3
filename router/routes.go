package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moments/handler"
	"moments/middleware"
	"moments/monitoring"
)

// SetupRoutes initializes all the application routes. Token resolution is
// applied everywhere; write-policy decisions stay in the handlers so a
// non-owner gets 403 rather than a blanket 401.
func SetupRoutes(
	auth *middleware.Auth,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	likeHandler *handler.LikeHandler,
	followerHandler *handler.FollowerHandler,
	feedHandler *handler.FeedHandler,
	mediaDir string,
) http.Handler {
	router := mux.NewRouter()
	router.Use(monitoring.InstrumentHandler)
	router.Use(auth.Optional)

	// Auth routes
	router.HandleFunc("/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/login", authHandler.Login).Methods("POST")
	router.Handle("/me", auth.Required(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// Profile routes
	router.HandleFunc("/profiles", profileHandler.List).Methods("GET")
	router.HandleFunc("/profiles/{id}", profileHandler.Get).Methods("GET")
	router.HandleFunc("/profiles/{id}", profileHandler.Update).Methods("PUT")

	// Post routes
	router.HandleFunc("/posts", postHandler.List).Methods("GET")
	router.HandleFunc("/posts", postHandler.Create).Methods("POST")
	router.HandleFunc("/posts/{id}", postHandler.Get).Methods("GET")
	router.HandleFunc("/posts/{id}", postHandler.Update).Methods("PUT")
	router.HandleFunc("/posts/{id}", postHandler.Delete).Methods("DELETE")

	// Comment routes
	router.HandleFunc("/comments", commentHandler.List).Methods("GET")
	router.HandleFunc("/comments", commentHandler.Create).Methods("POST")
	router.HandleFunc("/comments/{id}", commentHandler.Get).Methods("GET")
	router.HandleFunc("/comments/{id}", commentHandler.Update).Methods("PUT")
	router.HandleFunc("/comments/{id}", commentHandler.Delete).Methods("DELETE")

	// Like routes
	router.HandleFunc("/likes", likeHandler.List).Methods("GET")
	router.HandleFunc("/likes", likeHandler.Create).Methods("POST")
	router.HandleFunc("/likes/{id}", likeHandler.Get).Methods("GET")
	router.HandleFunc("/likes/{id}", likeHandler.Delete).Methods("DELETE")

	// Follower routes
	router.HandleFunc("/followers", followerHandler.List).Methods("GET")
	router.HandleFunc("/followers", followerHandler.Create).Methods("POST")
	router.HandleFunc("/followers/{id}", followerHandler.Get).Methods("GET")
	router.HandleFunc("/followers/{id}", followerHandler.Delete).Methods("DELETE")

	// Feed route
	router.Handle("/feed", auth.Required(http.HandlerFunc(feedHandler.Get))).Methods("GET")

	// Uploaded media
	router.PathPrefix("/media/").Handler(
		http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir))),
	)

	// Metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}
