package guide

import (
	"encoding/json"
	"net/http"

	"voter-guides/internal/handler/http/respond"
	"voter-guides/internal/observability/metrics"
	guideUC "voter-guides/internal/usecase/guide"
)

// upsertRequest is the shared body shape of the owner-scoped upsert routes.
// Which identifier is required depends on the route.
type upsertRequest struct {
	OrganizationWeVoteID  string `json:"organization_we_vote_id"`
	PublicFigureWeVoteID  string `json:"public_figure_we_vote_id"`
	OwnerVoterID          int64  `json:"owner_voter_id"`
	GoogleCivicElectionID int64  `json:"google_civic_election_id"`
	VoteSmartTimeSpan     string `json:"vote_smart_time_span"`
}

// upsertStatusCode maps a structured upsert result onto an HTTP status.
// Missing-variable outcomes are client errors; storage failures are 500s;
// everything else, including ambiguity, is reported in a 200 envelope.
func upsertStatusCode(res guideUC.UpsertResult) int {
	switch {
	case res.Success && res.Created:
		return http.StatusCreated
	case res.Success:
		return http.StatusOK
	case res.Status == guideUC.StatusStorageFailure:
		return http.StatusInternalServerError
	case res.MultipleFound:
		return http.StatusOK
	default:
		return http.StatusBadRequest
	}
}

func writeUpsert(w http.ResponseWriter, res guideUC.UpsertResult, ownerType string) {
	outcome := "updated"
	if res.Created {
		outcome = "created"
	}
	if !res.Success {
		outcome = "failed"
	}
	metrics.RecordGuideUpsert(ownerType, outcome)

	respond.JSON(w, upsertStatusCode(res), UpsertResponse{
		Success:       res.Success,
		Status:        string(res.Status),
		Created:       res.Created,
		MultipleFound: res.MultipleFound,
		VoterGuide:    fromEntity(res.Guide),
	})
}

// UpsertOrganizationHandler creates or updates the guide an organization
// publishes for one election, or for one Vote Smart time span when
// vote_smart_time_span is set instead of google_civic_election_id.
type UpsertOrganizationHandler struct{ Svc *guideUC.Service }

func (h UpsertOrganizationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var res guideUC.UpsertResult
	if req.VoteSmartTimeSpan != "" {
		res = h.Svc.UpsertForOrganizationByTimeSpan(r.Context(), req.OrganizationWeVoteID, req.VoteSmartTimeSpan)
	} else {
		res = h.Svc.UpsertForOrganization(r.Context(), req.OrganizationWeVoteID, req.GoogleCivicElectionID)
	}
	writeUpsert(w, res, "organization")
}

// UpsertPublicFigureHandler creates or updates the guide a public figure
// publishes for one election.
type UpsertPublicFigureHandler struct{ Svc *guideUC.Service }

func (h UpsertPublicFigureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res := h.Svc.UpsertForPublicFigure(r.Context(), req.PublicFigureWeVoteID, req.GoogleCivicElectionID)
	writeUpsert(w, res, "public_figure")
}

// UpsertVoterHandler creates or updates the guide an individual voter
// publishes for one election.
type UpsertVoterHandler struct{ Svc *guideUC.Service }

func (h UpsertVoterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res := h.Svc.UpsertForVoter(r.Context(), req.OwnerVoterID, req.GoogleCivicElectionID)
	writeUpsert(w, res, "voter")
}
