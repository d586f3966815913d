package delivery

import (
	"github.com/go-chi/chi/v5"

	"github.com/benmill23/Image-Uploader/internal/ports"
)

func RegisterRoutes(r chi.Router, hAuth *AuthHandler, auth ports.AuthService, hImages *ImageHandler) {

	// login is public
	r.Post("/api/login", hAuth.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(auth))

		r.Post("/api/images", hImages.Upload)
		r.Get("/api/images", hImages.List)
		r.Get("/api/images/{id}/url", hImages.DisplayURL)
		r.Delete("/api/images/{id}", hImages.Delete)
	})
}
