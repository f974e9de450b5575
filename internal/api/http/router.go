package http

import (
	"github.com/gorilla/mux"

	"github.com/skipmark/skipmark-server/internal/api/recovery"
)

// NewRouter wires all API routes.
func NewRouter(userInfo *UserInfoHandler, lockReason *LockReasonHandler, healthH *HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	router.HandleFunc("/api/userInfo", userInfo.GetUserInfo).Methods("GET")
	router.HandleFunc("/api/lockReason", lockReason.GetLockReason).Methods("GET")

	router.HandleFunc("/api/health", healthH.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthH.CheckStoreHealth).Methods("GET")

	return router
}
