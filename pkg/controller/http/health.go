package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
)

// newHealthHandler reports liveness and the summary of the latest pass.
// A pass whose snapshot could not be persisted marks the service degraded.
func newHealthHandler(monitorUC interfaces.MonitorUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:  "healthy",
			Service: types.ServiceName,
			Version: types.Version,
		}

		if monitorUC != nil {
			if last := monitorUC.LastPass(); last != nil {
				status.LastPass = last.Summary()
				if !last.Persisted {
					status.Status = "degraded"
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}
