package guide

import (
	"net/http"

	"voter-guides/internal/handler/http/pathutil"
	"voter-guides/internal/handler/http/respond"
	guideUC "voter-guides/internal/usecase/guide"
)

// DeleteHandler removes one guide by row id. Deleting a guide that does not
// exist is a successful no-op.
type DeleteHandler struct{ Svc *guideUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/voter-guides/")
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
