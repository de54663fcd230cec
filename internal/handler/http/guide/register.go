package guide

import (
	"errors"
	"net/http"

	guideUC "voter-guides/internal/usecase/guide"
	guidelistUC "voter-guides/internal/usecase/guidelist"
)

var errInvalidElectionID = errors.New("google_civic_election_id must be a positive integer")

// Register registers all voter guide HTTP handlers with the given mux.
// It sets up routes for owner-scoped upserts, alternate-key retrieval,
// listing queries, cached field maintenance, and deletion.
func Register(mux *http.ServeMux, svc *guideUC.Service, lists *guidelistUC.Service) {
	mux.Handle("GET    /voter-guides", ListHandler{lists})
	mux.Handle("GET    /voter-guides/retrieve", RetrieveHandler{svc})
	mux.Handle("GET    /voter-guides/most-recent", MostRecentHandler{svc})
	mux.Handle("GET    /voter-guides/exists", ExistsHandler{svc})
	mux.Handle("GET    /voter-guides/for-election", ForElectionHandler{lists})
	mux.Handle("GET    /voter-guides/duplicates", DuplicatesHandler{lists})
	mux.Handle("GET    /voter-guides/", GetHandler{svc})

	mux.Handle("POST   /voter-guides/organization", UpsertOrganizationHandler{svc})
	mux.Handle("POST   /voter-guides/public-figure", UpsertPublicFigureHandler{svc})
	mux.Handle("POST   /voter-guides/voter", UpsertVoterHandler{svc})
	mux.Handle("POST   /voter-guides/by-organizations", ByOrganizationsHandler{lists})
	mux.Handle("POST   /voter-guides/to-follow", ToFollowHandler{lists})
	mux.Handle("POST   /voter-guides/refresh", RefreshHandler{svc})
	mux.Handle("POST   /voter-guides/social-statistics", SocialStatisticsHandler{svc})

	mux.Handle("DELETE /voter-guides/", DeleteHandler{svc})
}
