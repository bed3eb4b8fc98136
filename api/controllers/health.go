package controllers

import (
	"net/http"

	"github.com/isdl/storefront-gateway/api/responses"
)

// Health answers liveness probes.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
