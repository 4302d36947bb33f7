package runner

import (
	"context"
	"log"

	"github.com/KpG782/Pacebeats-admin-sub001/internal/db"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/session"
)

const activeFeedLimit = 50

// ActiveSession is a live session joined with its runner's identity.
type ActiveSession struct {
	session.RunningSession
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Feed carries the three collections the live dashboard correlates by
// session_id client-side; no cross-joining happens here.
type Feed struct {
	Sessions   []ActiveSession           `json:"sessions"`
	HeartRates []session.HeartRateSample `json:"heartRates"`
	Alerts     []session.SessionAlert    `json:"alerts"`
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// ActiveRunners returns the most recently live sessions with their heart-rate
// samples and unresolved alerts. Only the session query is fatal; the two
// secondary fetches degrade to empty collections when they fail.
func (s *Service) ActiveRunners(ctx context.Context) (Feed, error) {
	feed := Feed{
		Sessions:   []ActiveSession{},
		HeartRates: []session.HeartRateSample{},
		Alerts:     []session.SessionAlert{},
	}

	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.user_id, s.status, s.start_time, s.end_time,
		       COALESCE(s.total_distance_km,0), COALESCE(s.current_pace_min_km,0),
		       COALESCE(s.avg_pace_min_km,0), COALESCE(s.avg_cadence_spm,0),
		       s.avg_heart_rate_bpm, COALESCE(s.current_heart_rate_bpm,0),
		       COALESCE(s.duration_seconds,0), COALESCE(s.last_heartbeat_at, s.created_at), s.created_at,
		       u.username, u.email
		FROM running_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.status IN ('active','running')
		ORDER BY s.last_heartbeat_at DESC NULLS LAST
		LIMIT $1
	`, activeFeedLimit)
	if err != nil {
		return Feed{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var as ActiveSession
		if err := rows.Scan(&as.ID, &as.UserID, &as.Status, &as.StartTime, &as.EndTime,
			&as.TotalDistanceKm, &as.CurrentPaceMinKm, &as.AvgPaceMinKm, &as.AvgCadenceSpm,
			&as.AvgHeartRateBpm, &as.CurrentHeartRateBpm, &as.DurationSeconds,
			&as.LastHeartbeatAt, &as.CreatedAt, &as.Username, &as.Email); err != nil {
			return Feed{}, err
		}
		feed.Sessions = append(feed.Sessions, as)
	}

	if len(feed.Sessions) == 0 {
		return feed, nil
	}

	ids := make([]string, 0, len(feed.Sessions))
	for _, sess := range feed.Sessions {
		ids = append(ids, sess.ID)
	}

	feed.HeartRates = s.heartRates(ctx, ids)
	feed.Alerts = s.unresolvedAlerts(ctx, ids)
	return feed, nil
}

func (s *Service) heartRates(ctx context.Context, ids []string) []session.HeartRateSample {
	samples := []session.HeartRateSample{}
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, timestamp_offset_seconds, heart_rate_bpm, recorded_at
		FROM session_heart_rate_data WHERE session_id = ANY($1)
		ORDER BY recorded_at DESC
	`, ids)
	if err != nil {
		log.Printf("active runners: heart rate fetch failed, serving empty: %v", err)
		return samples
	}
	defer rows.Close()

	for rows.Next() {
		var h session.HeartRateSample
		if err := rows.Scan(&h.ID, &h.SessionID, &h.TimestampOffsetSec, &h.HeartRateBpm, &h.RecordedAt); err != nil {
			log.Printf("active runners: heart rate scan failed, serving empty: %v", err)
			return []session.HeartRateSample{}
		}
		samples = append(samples, h)
	}
	return samples
}

func (s *Service) unresolvedAlerts(ctx context.Context, ids []string) []session.SessionAlert {
	alerts := []session.SessionAlert{}
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, severity, heart_rate_bpm, COALESCE(message,''), resolved, created_at
		FROM session_alerts WHERE session_id = ANY($1) AND resolved = FALSE
		ORDER BY created_at DESC
	`, ids)
	if err != nil {
		log.Printf("active runners: alert fetch failed, serving empty: %v", err)
		return alerts
	}
	defer rows.Close()

	for rows.Next() {
		var a session.SessionAlert
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Severity, &a.HeartRateBpm, &a.Message, &a.Resolved, &a.CreatedAt); err != nil {
			log.Printf("active runners: alert scan failed, serving empty: %v", err)
			return []session.SessionAlert{}
		}
		alerts = append(alerts, a)
	}
	return alerts
}
