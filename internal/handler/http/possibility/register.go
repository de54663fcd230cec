package possibility

import (
	"net/http"

	posUC "voter-guides/internal/usecase/possibility"
)

// Register registers all possibility HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc *posUC.Service) {
	mux.Handle("GET    /voter-guide-possibilities/retrieve", RetrieveHandler{svc})
	mux.Handle("GET    /voter-guide-possibilities/", GetHandler{svc})

	mux.Handle("POST   /voter-guide-possibilities", UpsertHandler{svc})

	mux.Handle("DELETE /voter-guide-possibilities/", DeleteHandler{svc})
}
