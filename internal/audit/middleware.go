package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/obs"
)

// HTTPRecorder records write requests after they have been handled.
type HTTPRecorder struct {
	Service *Service
	Logger  *zerolog.Logger
}

// RouteConfig names the audited resource for a route group.
type RouteConfig struct {
	ResourceType    string
	ResourceIDParam string
}

// Middleware records one entry per request. Failures to persist the entry are
// logged and never change the response.
func (r HTTPRecorder) Middleware(cfg RouteConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if r.Service == nil || !r.Service.Enabled {
				next.ServeHTTP(w, req)
				return
			}

			rec := obs.NewStatusRecorder(w)
			next.ServeHTTP(rec, req)

			entry := Record{
				Actor:        actorFromRequest(req),
				ResourceType: cfg.ResourceType,
				Status:       rec.Status(),
			}
			if cfg.ResourceIDParam != "" {
				entry.ResourceID = chi.URLParam(req, cfg.ResourceIDParam)
			}
			if err := r.Service.Record(req.Context(), req, entry); err != nil && r.Logger != nil {
				r.Logger.Warn().Err(err).Str("path", req.URL.Path).Msg("audit record failed")
			}
		})
	}
}

func actorFromRequest(req *http.Request) Actor {
	if userID, ok := common.UserID(req.Context()); ok && userID != "" {
		return Actor{Kind: ActorKindUser, UserID: userID}
	}
	return Actor{Kind: ActorKindAnonymous}
}
