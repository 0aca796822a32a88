package query_controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/matchforge/platform/cmd/rest-api/controllers"
	common "github.com/matchforge/platform/pkg/domain"
	matchmaking_in "github.com/matchforge/platform/pkg/domain/matchmaking/ports/in"
)

// MatchmakingQueryController exposes the Coordinator's read-only operations
// (spec §4.E, §6: GET /matchmaking/status, /matchmaking/history,
// /matchmaking/stats).
type MatchmakingQueryController struct {
	helper *controllers.ControllerHelper
	Status matchmaking_in.GetMatchmakingStatusQueryHandler
	History matchmaking_in.GetMatchHistoryQueryHandler
	Stats   matchmaking_in.GetMatchmakingStatsQueryHandler
}

func NewMatchmakingQueryController(status matchmaking_in.GetMatchmakingStatusQueryHandler, history matchmaking_in.GetMatchHistoryQueryHandler, stats matchmaking_in.GetMatchmakingStatsQueryHandler) *MatchmakingQueryController {
	return &MatchmakingQueryController{helper: controllers.NewControllerHelper(), Status: status, History: history, Stats: stats}
}

// GetStatus handles GET /matchmaking/status.
func (ctrl *MatchmakingQueryController) GetStatus(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		request, queue, err := ctrl.Status.Exec(r.Context(), userID)
		if ctrl.helper.HandleError(w, r, err, "failed to get matchmaking status") {
			return
		}

		ctrl.helper.WriteOK(w, r, map[string]interface{}{
			"request": request,
			"queue":   queue,
		})
	}
}

// GetHistory handles GET /matchmaking/history.
func (ctrl *MatchmakingQueryController) GetHistory(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := common.GetResourceOwner(r.Context()).UserID

		q := r.URL.Query()
		query := matchmaking_in.GetMatchHistoryQuery{
			Page:   atoiDefault(q.Get("page"), 1),
			Limit:  atoiDefault(q.Get("limit"), 20),
			GameID: q.Get("game_id"),
			Status: q.Get("status"),
		}

		page, err := ctrl.History.Exec(r.Context(), userID, query)
		if ctrl.helper.HandleError(w, r, err, "failed to get match history") {
			return
		}

		ctrl.helper.WriteOK(w, r, page)
	}
}

// GetStats handles GET /matchmaking/stats (admin-only, spec §6).
func (ctrl *MatchmakingQueryController) GetStats(apiContext context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hours := atoiDefault(r.URL.Query().Get("hours"), 1)

		stats, err := ctrl.Stats.Exec(r.Context(), hours)
		if ctrl.helper.HandleError(w, r, err, "failed to get matchmaking stats") {
			return
		}

		ctrl.helper.WriteOK(w, r, stats)
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
