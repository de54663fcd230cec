package possibility

import (
	"encoding/json"
	"net/http"
	"strconv"

	"voter-guides/internal/handler/http/pathutil"
	"voter-guides/internal/handler/http/respond"
	posUC "voter-guides/internal/usecase/possibility"
)

// UpsertHandler records a candidate URL, keyed on the URL alone or on the
// (URL, election) pair when an election id is supplied.
type UpsertHandler struct{ Svc *posUC.Service }

func (h UpsertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL                   string `json:"voter_guide_possibility_url"`
		GoogleCivicElectionID int64  `json:"google_civic_election_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res := h.Svc.Upsert(r.Context(), req.URL, req.GoogleCivicElectionID)

	code := http.StatusOK
	switch {
	case res.Success && res.Created:
		code = http.StatusCreated
	case !res.Success && res.Status == posUC.StatusStorageFailure:
		code = http.StatusInternalServerError
	case !res.Success && !res.MultipleFound:
		code = http.StatusBadRequest
	}

	respond.JSON(w, code, UpsertResponse{
		Success:       res.Success,
		Status:        string(res.Status),
		Created:       res.Created,
		MultipleFound: res.MultipleFound,
		Possibility:   fromEntity(res.Possibility),
	})
}

func writeRetrieve(w http.ResponseWriter, res posUC.RetrieveResult) {
	code := http.StatusOK
	if !res.Success {
		switch res.Status {
		case posUC.StatusStorageFailure:
			code = http.StatusInternalServerError
		case posUC.StatusInsufficientVariables:
			code = http.StatusBadRequest
		}
	}

	respond.JSON(w, code, RetrieveResponse{
		Success:       res.Success,
		Status:        string(res.Status),
		Found:         res.Found,
		MultipleFound: res.MultipleFound,
		Possibility:   fromEntity(res.Possibility),
	})
}

// GetHandler looks up one possibility by its database row id from the path.
type GetHandler struct{ Svc *posUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/voter-guide-possibilities/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	writeRetrieve(w, h.Svc.Retrieve(r.Context(), posUC.RetrieveQuery{ID: id}))
}

// RetrieveHandler looks up one possibility by whichever alternate key
// combination the query string supplies.
type RetrieveHandler struct{ Svc *posUC.Service }

func (h RetrieveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := posUC.RetrieveQuery{
		URL:                  q.Get("voter_guide_possibility_url"),
		OrganizationWeVoteID: q.Get("organization_we_vote_id"),
		PublicFigureWeVoteID: q.Get("public_figure_we_vote_id"),
		OwnerWeVoteID:        q.Get("owner_we_vote_id"),
	}
	if raw := q.Get("voter_guide_possibility_id"); raw != "" {
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

	writeRetrieve(w, h.Svc.Retrieve(r.Context(), query))
}

// DeleteHandler removes one possibility by row id. Deleting a record that
// does not exist is a successful no-op.
type DeleteHandler struct{ Svc *posUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/voter-guide-possibilities/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res := h.Svc.Delete(r.Context(), id)

	code := http.StatusOK
	if !res.Success {
		code = http.StatusInternalServerError
	}
	respond.JSON(w, code, DeleteResponse{
		Success: res.Success,
		Deleted: res.Deleted,
		ID:      res.ID,
	})
}
