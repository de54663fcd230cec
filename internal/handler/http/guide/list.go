package guide

import (
	"encoding/json"
	"net/http"
	"strconv"

	"voter-guides/internal/handler/http/respond"
	"voter-guides/internal/repository"
	guidelistUC "voter-guides/internal/usecase/guidelist"
)

func writeList(w http.ResponseWriter, res guidelistUC.ListResult) {
	code := http.StatusOK
	if !res.Success {
		switch res.Status {
		case guidelistUC.StatusStorageFailure:
			code = http.StatusInternalServerError
		default:
			code = http.StatusBadRequest
		}
	}

	respond.JSON(w, code, ListResponse{
		Success:     res.Success,
		Status:      string(res.Status),
		Found:       res.Found,
		VoterGuides: fromEntities(res.Guides),
	})
}

// ListHandler returns every guide, ordered by followers or by scope.
type ListHandler struct{ Svc *guidelistUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orderBy := repository.OrderByFollowersDesc
	if r.URL.Query().Get("order_by") == "scope" {
		orderBy = repository.OrderByScopeDesc
	}

	writeList(w, h.Svc.All(r.Context(), orderBy))
}

// ForElectionHandler lists every guide scoped to one election.
type ForElectionHandler struct{ Svc *guidelistUC.Service }

func (h ForElectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	electionID, err := strconv.ParseInt(r.URL.Query().Get("google_civic_election_id"), 10, 64)
	if err != nil || electionID <= 0 {
		respond.SafeError(w, http.StatusBadRequest,
			errInvalidElectionID)
		return
	}

	writeList(w, h.Svc.ForElection(r.Context(), electionID))
}

// ByOrganizationsHandler lists the guides owned by any of the given
// organizations, with older time-span editions collapsed per organization.
// The storage order is by display name; order_by "twitter_followers" reorders
// the collapsed result by follower count descending.
type ByOrganizationsHandler struct{ Svc *guidelistUC.Service }

func (h ByOrganizationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizationWeVoteIDs []string `json:"organization_we_vote_ids"`
		OrderBy               string   `json:"order_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res := h.Svc.ByOrganizations(r.Context(), req.OrganizationWeVoteIDs)
	if req.OrderBy == "twitter_followers" {
		guidelistUC.SortByFollowers(res.Guides, true)
	}
	writeList(w, res)
}

// toFollowRequest selects which to-follow variant runs. A positive election
// id wins; otherwise time-span pairs; otherwise the generic listing with
// exclusions.
type toFollowRequest struct {
	GoogleCivicElectionID          int64    `json:"google_civic_election_id"`
	OrganizationWeVoteIDs          []string `json:"organization_we_vote_ids"`
	ExcludedOrganizationWeVoteIDs  []string `json:"excluded_organization_we_vote_ids"`
	OrganizationTimeSpans          []struct {
		VoteSmartTimeSpan    string `json:"vote_smart_time_span"`
		OrganizationWeVoteID string `json:"organization_we_vote_id"`
	} `json:"organization_time_spans"`
	SearchString string `json:"search_string"`
	SortBy       string `json:"sort_by"`
	SortDesc     bool   `json:"sort_desc"`
	Limit        int    `json:"maximum_number_to_retrieve"`
}

// ToFollowHandler lists guides a voter could follow, in one of three shapes.
type ToFollowHandler struct{ Svc *guidelistUC.Service }

func (h ToFollowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req toFollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	opts := repository.ListOptions{
		SearchString: req.SearchString,
		SortBy:       req.SortBy,
		SortDesc:     req.SortDesc,
		Limit:        req.Limit,
	}

	var res guidelistUC.ListResult
	switch {
	case req.GoogleCivicElectionID > 0:
		res = h.Svc.ToFollowByElection(r.Context(), req.GoogleCivicElectionID, req.OrganizationWeVoteIDs, opts)
	case len(req.OrganizationTimeSpans) > 0:
		pairs := make([]repository.OrganizationTimeSpan, 0, len(req.OrganizationTimeSpans))
		for _, p := range req.OrganizationTimeSpans {
			pairs = append(pairs, repository.OrganizationTimeSpan{
				VoteSmartTimeSpan:    p.VoteSmartTimeSpan,
				OrganizationWeVoteID: p.OrganizationWeVoteID,
			})
		}
		res = h.Svc.ToFollowByTimeSpans(r.Context(), pairs, opts)
	default:
		res = h.Svc.ToFollowGeneric(r.Context(), req.ExcludedOrganizationWeVoteIDs, opts)
	}

	writeList(w, res)
}

// DuplicatesHandler lists possible duplicates of one guide, scoped to its
// election or time span and matched on any identifying field.
type DuplicatesHandler struct{ Svc *guidelistUC.Service }

func (h DuplicatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := repository.DuplicateFilters{
		VoteSmartTimeSpan:    q.Get("vote_smart_time_span"),
		OrganizationWeVoteID: q.Get("organization_we_vote_id"),
		PublicFigureWeVoteID: q.Get("public_figure_we_vote_id"),
		TwitterHandle:        q.Get("twitter_handle"),
		ExcludeWeVoteID:      q.Get("exclude_we_vote_id"),
	}
	if raw := q.Get("google_civic_election_id"); raw != "" {
		electionID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, errInvalidElectionID)
			return
		}
		filters.GoogleCivicElectionID = electionID
	}

	writeList(w, h.Svc.PossibleDuplicates(r.Context(), filters))
}
