package guide

import (
	"errors"
	"net/http"
	"strconv"

	"voter-guides/internal/handler/http/pathutil"
	"voter-guides/internal/handler/http/respond"
	"voter-guides/internal/observability/metrics"
	guideUC "voter-guides/internal/usecase/guide"
)

// hydrateDisplayFields fills a found guide's display name and image from the
// owner store when the cached values are empty. The fallback is response-only;
// nothing is persisted here.
func hydrateDisplayFields(r *http.Request, svc *guideUC.Service, res guideUC.RetrieveResult) guideUC.RetrieveResult {
	if res.Found && res.Guide != nil {
		res.Guide.DisplayName = svc.DisplayNameFor(r.Context(), res.Guide)
		res.Guide.ImageURL = svc.ImageURLFor(r.Context(), res.Guide)
	}
	return res
}

func writeRetrieve(w http.ResponseWriter, res guideUC.RetrieveResult) {
	outcome := "found"
	switch {
	case !res.Success:
		outcome = "failed"
	case res.MultipleFound:
		outcome = "ambiguous"
	case !res.Found:
		outcome = "not_found"
	}
	metrics.RecordGuideRetrieve(outcome)

	code := http.StatusOK
	if !res.Success {
		switch res.Status {
		case guideUC.StatusStorageFailure:
			code = http.StatusInternalServerError
		case guideUC.StatusInsufficientVariables:
			code = http.StatusBadRequest
		}
	}

	respond.JSON(w, code, RetrieveResponse{
		Success:       res.Success,
		Status:        string(res.Status),
		Found:         res.Found,
		MultipleFound: res.MultipleFound,
		VoterGuide:    fromEntity(res.Guide),
	})
}

// GetHandler looks up one guide by its database row id, taken from the path.
type GetHandler struct{ Svc *guideUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/voter-guides/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	writeRetrieve(w, hydrateDisplayFields(r, h.Svc, h.Svc.Retrieve(r.Context(), guideUC.RetrieveQuery{ID: id})))
}

// RetrieveHandler looks up one guide by whichever alternate key combination
// the query string supplies. Keys are tried in a fixed precedence order.
type RetrieveHandler struct{ Svc *guideUC.Service }

func (h RetrieveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := guideUC.RetrieveQuery{
		VoteSmartTimeSpan:    q.Get("vote_smart_time_span"),
		OrganizationWeVoteID: q.Get("organization_we_vote_id"),
		PublicFigureWeVoteID: q.Get("public_figure_we_vote_id"),
		OwnerWeVoteID:        q.Get("owner_we_vote_id"),
	}
	if raw := q.Get("voter_guide_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, pathutil.ErrInvalidID)
			return
		}
		query.ID = id
	}
	if raw := q.Get("google_civic_election_id"); raw != "" {
		electionID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, pathutil.ErrInvalidID)
			return
		}
		query.GoogleCivicElectionID = electionID
	}

	writeRetrieve(w, hydrateDisplayFields(r, h.Svc, h.Svc.Retrieve(r.Context(), query)))
}

// MostRecentHandler returns the most recently scoped guide an organization
// has published, walking time spans first and then elections by date.
type MostRecentHandler struct{ Svc *guideUC.Service }

func (h MostRecentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	organizationWeVoteID := r.URL.Query().Get("organization_we_vote_id")

	writeRetrieve(w, hydrateDisplayFields(r, h.Svc, h.Svc.MostRecentForOrganization(r.Context(), organizationWeVoteID)))
}

// ExistsHandler reports whether any guide exists for the (organization,
// election) pair, without returning the guide itself.
type ExistsHandler struct{ Svc *guideUC.Service }

func (h ExistsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	organizationWeVoteID := q.Get("organization_we_vote_id")
	if organizationWeVoteID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("organization_we_vote_id is required"))
		return
	}
	electionID, err := strconv.ParseInt(q.Get("google_civic_election_id"), 10, 64)
	if err != nil || electionID <= 0 {
		respond.SafeError(w, http.StatusBadRequest, errInvalidElectionID)
		return
	}

	exists := h.Svc.Exists(r.Context(), organizationWeVoteID, electionID)
	respond.JSON(w, http.StatusOK, ExistsResponse{
		Success:          true,
		VoterGuideExists: exists,
	})
}
