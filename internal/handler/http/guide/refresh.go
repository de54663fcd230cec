package guide

import (
	"encoding/json"
	"errors"
	"net/http"

	"voter-guides/internal/handler/http/respond"
	"voter-guides/internal/observability/metrics"
	guideUC "voter-guides/internal/usecase/guide"
)

type refreshRequest struct {
	VoterGuideID int64 `json:"voter_guide_id"`
}

// loadGuide resolves the guide named in the request body, writing the error
// response itself when the guide cannot be used.
func loadGuide(w http.ResponseWriter, r *http.Request, svc *guideUC.Service) (guideUC.RetrieveResult, bool) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return guideUC.RetrieveResult{}, false
	}
	if req.VoterGuideID <= 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("voter_guide_id is required"))
		return guideUC.RetrieveResult{}, false
	}

	res := svc.Retrieve(r.Context(), guideUC.RetrieveQuery{ID: req.VoterGuideID})
	if !res.Success {
		respond.JSON(w, http.StatusInternalServerError, RetrieveResponse{
			Success: false,
			Status:  string(res.Status),
		})
		return res, false
	}
	if !res.Found {
		respond.JSON(w, http.StatusOK, RetrieveResponse{
			Success: true,
			Status:  string(res.Status),
		})
		return res, false
	}
	return res, true
}

// RefreshHandler re-derives the cached display fields of one guide from its
// owning organization, filling only fields that are currently empty.
type RefreshHandler struct{ Svc *guideUC.Service }

func (h RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, ok := loadGuide(w, r, h.Svc)
	if !ok {
		return
	}

	refreshed := h.Svc.RefreshCachedFields(r.Context(), res.Guide)

	result := "unchanged"
	switch {
	case !refreshed.Success:
		result = "failed"
	case refreshed.Status == guideUC.StatusSavedTwitterDetails:
		result = "refreshed"
	}
	metrics.RecordGuideRefreshed(result)

	code := http.StatusOK
	if !refreshed.Success && refreshed.Status == guideUC.StatusStorageFailure {
		code = http.StatusInternalServerError
	}
	respond.JSON(w, code, UpsertResponse{
		Success:    refreshed.Success,
		Status:     string(refreshed.Status),
		VoterGuide: fromEntity(refreshed.Guide),
	})
}

type socialStatisticsRequest struct {
	OrganizationWeVoteID string `json:"organization_we_vote_id"`
}

// SocialStatisticsHandler pushes an organization's current twitter follower
// count onto its most recent guide.
type SocialStatisticsHandler struct{ Svc *guideUC.Service }

func (h SocialStatisticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req socialStatisticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.OrganizationWeVoteID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("organization_we_vote_id is required"))
		return
	}

	social := h.Svc.UpdateSocialStatistics(r.Context(), req.OrganizationWeVoteID)

	code := http.StatusOK
	if !social.Success && social.Status == guideUC.StatusStorageFailure {
		code = http.StatusInternalServerError
	}
	respond.JSON(w, code, UpsertResponse{
		Success:    social.Success,
		Status:     string(social.Status),
		VoterGuide: fromEntity(social.Guide),
	})
}
