package stats

import (
	"context"

	"github.com/verte-zerg/tenkey/internal/model"
	"github.com/verte-zerg/tenkey/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Gestures []model.GestureStats
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	gestures, err := st.GestureTotals(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions: sessions,
		Gestures: gestures,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
