package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KpG782/Pacebeats-admin-sub001/internal/db"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/shared/pace"

	"github.com/jackc/pgx/v5"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

const sessionColumns = `
	id, user_id, status, start_time, end_time,
	COALESCE(total_distance_km,0), COALESCE(current_pace_min_km,0),
	COALESCE(avg_pace_min_km,0), COALESCE(avg_cadence_spm,0),
	avg_heart_rate_bpm, COALESCE(current_heart_rate_bpm,0),
	COALESCE(duration_seconds,0), COALESCE(last_heartbeat_at, created_at), created_at`

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func scanSession(row pgx.Row, sess *RunningSession) error {
	return row.Scan(&sess.ID, &sess.UserID, &sess.Status, &sess.StartTime, &sess.EndTime,
		&sess.TotalDistanceKm, &sess.CurrentPaceMinKm, &sess.AvgPaceMinKm, &sess.AvgCadenceSpm,
		&sess.AvgHeartRateBpm, &sess.CurrentHeartRateBpm, &sess.DurationSeconds,
		&sess.LastHeartbeatAt, &sess.CreatedAt)
}

// UserSessions returns a user's sessions, newest first, flattened for the
// dashboard table. Song counts beyond the total are deferred to the detail
// view; computing them here would need a per-flag scan over every session's
// music history.
func (s *Service) UserSessions(ctx context.Context, userID string) (User, []ListItem, error) {
	var user User
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, created_at
		FROM users WHERE id=$1
	`, userID)
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, nil, ErrUserNotFound
		}
		return User{}, nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT`+sessionColumns+`
		FROM running_sessions WHERE user_id=$1
		ORDER BY start_time DESC
	`, userID)
	if err != nil {
		return User{}, nil, err
	}
	defer rows.Close()

	var sessions []RunningSession
	for rows.Next() {
		var sess RunningSession
		if err := scanSession(rows, &sess); err != nil {
			return User{}, nil, err
		}
		sessions = append(sessions, sess)
	}

	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}

	songCounts := map[string]int{}
	if len(ids) > 0 {
		musicRows, err := s.db.Query(ctx, `
			SELECT session_id FROM session_music_history WHERE session_id = ANY($1)
		`, ids)
		if err != nil {
			log.Printf("session list: music history fetch failed, song counts default to 0: %v", err)
		} else {
			defer musicRows.Close()
			for musicRows.Next() {
				var sid string
				if err := musicRows.Scan(&sid); err != nil {
					return User{}, nil, err
				}
				songCounts[sid]++
			}
		}
	}

	items := make([]ListItem, 0, len(sessions))
	for _, sess := range sessions {
		avgHR := 0.0
		if sess.AvgHeartRateBpm != nil {
			avgHR = *sess.AvgHeartRateBpm
		}
		items = append(items, ListItem{
			SessionID:       sess.ID,
			Status:          sess.Status,
			StartTime:       sess.StartTime,
			EndTime:         sess.EndTime,
			DurationMinutes: pace.RoundedMinutes(sess.DurationSeconds),
			DistanceKm:      sess.TotalDistanceKm,
			AvgPaceMinKm:    sess.AvgPaceMinKm,
			AvgCadenceSpm:   sess.AvgCadenceSpm,
			AvgHeartRateBpm: avgHR,
			TotalSongs:      songCounts[sess.ID],
		})
	}
	return user, items, nil
}

// Detail assembles one session with its owner and every child collection.
// The session row itself is the only fatal fetch: a failing child query is
// logged and its collection served empty so a partial outage in one table
// does not blank the whole detail page.
func (s *Service) Detail(ctx context.Context, sessionID string) (Detail, error) {
	var detail Detail
	row := s.db.QueryRow(ctx, `
		SELECT`+sessionColumns+`
		FROM running_sessions WHERE id=$1
	`, sessionID)
	if err := scanSession(row, &detail.RunningSession); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, ErrSessionNotFound
		}
		return Detail{}, err
	}

	userRow := s.db.QueryRow(ctx, `
		SELECT username, email FROM users WHERE id=$1
	`, detail.UserID)
	if err := userRow.Scan(&detail.Username, &detail.Email); err != nil {
		log.Printf("session detail %s: owner lookup failed: %v", sessionID, err)
	}

	detail.HeartRateData = s.heartRateData(ctx, sessionID)
	detail.MusicHistory = s.musicHistory(ctx, sessionID)
	detail.GPSPoints = s.gpsPoints(ctx, sessionID)
	detail.PaceIntervals = s.paceIntervals(ctx, sessionID)

	detail.TotalSongs = len(detail.MusicHistory)
	for _, entry := range detail.MusicHistory {
		if entry.WasSkipped {
			detail.SkippedSongs++
		} else {
			detail.CompletedSongs++
		}
		if entry.WasLiked {
			detail.LikedSongs++
		}
	}
	return detail, nil
}

func (s *Service) heartRateData(ctx context.Context, sessionID string) []HeartRateSample {
	samples := []HeartRateSample{}
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, timestamp_offset_seconds, heart_rate_bpm, recorded_at
		FROM session_heart_rate_data WHERE session_id=$1
		ORDER BY timestamp_offset_seconds
	`, sessionID)
	if err != nil {
		log.Printf("session detail %s: heart rate fetch failed: %v", sessionID, err)
		return samples
	}
	defer rows.Close()

	for rows.Next() {
		var h HeartRateSample
		if err := rows.Scan(&h.ID, &h.SessionID, &h.TimestampOffsetSec, &h.HeartRateBpm, &h.RecordedAt); err != nil {
			log.Printf("session detail %s: heart rate scan failed: %v", sessionID, err)
			return []HeartRateSample{}
		}
		samples = append(samples, h)
	}
	return samples
}

func (s *Service) musicHistory(ctx context.Context, sessionID string) []MusicHistoryEntry {
	entries := []MusicHistoryEntry{}
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, track_id, track_name, artist_name, play_order, was_skipped, was_liked, played_at
		FROM session_music_history WHERE session_id=$1
		ORDER BY play_order
	`, sessionID)
	if err != nil {
		log.Printf("session detail %s: music history fetch failed: %v", sessionID, err)
		return entries
	}
	defer rows.Close()

	for rows.Next() {
		var m MusicHistoryEntry
		if err := rows.Scan(&m.ID, &m.SessionID, &m.TrackID, &m.TrackName, &m.ArtistName, &m.PlayOrder, &m.WasSkipped, &m.WasLiked, &m.PlayedAt); err != nil {
			log.Printf("session detail %s: music history scan failed: %v", sessionID, err)
			return []MusicHistoryEntry{}
		}
		entries = append(entries, m)
	}
	return entries
}

func (s *Service) gpsPoints(ctx context.Context, sessionID string) []GPSPoint {
	points := []GPSPoint{}
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, latitude, longitude, COALESCE(altitude_m,0), timestamp_offset_seconds
		FROM session_gps_points WHERE session_id=$1
		ORDER BY timestamp_offset_seconds
	`, sessionID)
	if err != nil {
		log.Printf("session detail %s: gps fetch failed: %v", sessionID, err)
		return points
	}
	defer rows.Close()

	for rows.Next() {
		var p GPSPoint
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Latitude, &p.Longitude, &p.AltitudeM, &p.TimestampOffsetSec); err != nil {
			log.Printf("session detail %s: gps scan failed: %v", sessionID, err)
			return []GPSPoint{}
		}
		points = append(points, p)
	}
	return points
}

func (s *Service) paceIntervals(ctx context.Context, sessionID string) []PaceInterval {
	intervals := []PaceInterval{}
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, interval_number, distance_km, pace_min_km, duration_seconds
		FROM session_pace_intervals WHERE session_id=$1
		ORDER BY interval_number
	`, sessionID)
	if err != nil {
		log.Printf("session detail %s: pace interval fetch failed: %v", sessionID, err)
		return intervals
	}
	defer rows.Close()

	for rows.Next() {
		var pi PaceInterval
		if err := rows.Scan(&pi.ID, &pi.SessionID, &pi.IntervalNumber, &pi.DistanceKm, &pi.PaceMinKm, &pi.DurationSeconds); err != nil {
			log.Printf("session detail %s: pace interval scan failed: %v", sessionID, err)
			return []PaceInterval{}
		}
		intervals = append(intervals, pi)
	}
	return intervals
}

var childTables = []string{
	"session_heart_rate_data",
	"session_alerts",
	"session_music_history",
	"session_gps_points",
	"session_pace_intervals",
}

// DeleteSession removes a session and every dependent row. The store has no
// foreign-key cascade, so the five child tables are cleared first; each child
// delete is checked and aborts the flow before the parent row is touched so a
// failure never strands a parent-less child set.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	var id string
	row := s.db.QueryRow(ctx, `SELECT id FROM running_sessions WHERE id=$1`, sessionID)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}

	for _, table := range childTables {
		if _, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE session_id=$1`, sessionID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM running_sessions WHERE id=$1`, sessionID); err != nil {
		return fmt.Errorf("delete running_sessions: %w", err)
	}
	return nil
}

type statsSession struct {
	id        string
	userID    string
	startTime time.Time
	createdAt time.Time
	distance  float64
	duration  int64
	avgHR     *float64
}

// UsersWithStats bulk-fetches users, sessions and music history and joins
// them in memory with grouping maps. O(U + S + M); fine at admin-dashboard
// scale, pagination would be needed well before a few thousand sessions.
func (s *Service) UsersWithStats(ctx context.Context) ([]UserStats, error) {
	userRows, err := s.db.Query(ctx, `
		SELECT id, email, username, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer userRows.Close()

	var users []User
	for userRows.Next() {
		var u User
		if err := userRows.Scan(&u.ID, &u.Email, &u.Username, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	sessionRows, err := s.db.Query(ctx, `
		SELECT id, user_id, start_time, created_at, COALESCE(total_distance_km,0),
		       COALESCE(duration_seconds,0), avg_heart_rate_bpm
		FROM running_sessions
	`)
	if err != nil {
		return nil, err
	}
	defer sessionRows.Close()

	var sessions []statsSession
	for sessionRows.Next() {
		var sess statsSession
		if err := sessionRows.Scan(&sess.id, &sess.userID, &sess.startTime, &sess.createdAt,
			&sess.distance, &sess.duration, &sess.avgHR); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	byUser := map[string][]statsSession{}
	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		byUser[sess.userID] = append(byUser[sess.userID], sess)
		ids = append(ids, sess.id)
	}

	// Skipped when no sessions exist: ANY over an empty set would be a
	// pointless round trip.
	songsBySession := map[string]int{}
	if len(ids) > 0 {
		musicRows, err := s.db.Query(ctx, `
			SELECT session_id FROM session_music_history WHERE session_id = ANY($1)
		`, ids)
		if err != nil {
			log.Printf("users with stats: music history fetch failed, song counts default to 0: %v", err)
		} else {
			defer musicRows.Close()
			for musicRows.Next() {
				var sid string
				if err := musicRows.Scan(&sid); err != nil {
					return nil, err
				}
				songsBySession[sid]++
			}
		}
	}

	stats := make([]UserStats, 0, len(users))
	for _, u := range users {
		owned := byUser[u.ID]

		var totalDistance float64
		var totalDuration int64
		var hrSum float64
		var hrCount int
		var totalSongs int
		lastSession := u.CreatedAt

		for _, sess := range owned {
			totalDistance += sess.distance
			totalDuration += sess.duration
			if sess.avgHR != nil {
				hrSum += *sess.avgHR
				hrCount++
			}
			totalSongs += songsBySession[sess.id]

			when := sess.startTime
			if when.IsZero() {
				when = sess.createdAt
			}
			if when.After(lastSession) {
				lastSession = when
			}
		}

		avgHR := 0.0
		if hrCount > 0 {
			avgHR = hrSum / float64(hrCount)
		}

		stats = append(stats, UserStats{
			UserID:               u.ID,
			UserEmail:            u.Email,
			UserName:             u.Username,
			TotalSessions:        len(owned),
			TotalDistanceKm:      totalDistance,
			TotalDurationSeconds: totalDuration,
			AvgHeartRateBpm:      avgHR,
			TotalSongs:           totalSongs,
			LastSessionDate:      lastSession,
			CreatedAt:            u.CreatedAt,
		})
	}
	return stats, nil
}
