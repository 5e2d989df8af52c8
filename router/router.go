package router

import (
	"net/http"

	"secure-auth-api/handler"
	"secure-auth-api/service"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(userHandler *handler.UserHandler, authHandler *handler.AuthHandler, codec *service.TokenCodec) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	mux.Handle("/register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("/api/token/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("/api/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))

	auth := handler.AuthMiddleware(codec)

	mux.Handle("/api/logout-all", auth(handler.ErrorHandlingMiddleware(authHandler.LogoutAll)))

	mux.Handle("GET /api/admin/users", auth(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.ListUsers))))
	mux.Handle("PUT /api/admin/users/{id}/role", auth(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole))))
	mux.Handle("PUT /api/admin/users/{id}/status", auth(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateUserStatus))))

	return mux
}
