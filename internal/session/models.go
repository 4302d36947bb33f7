package session

import "time"

// RunningSession mirrors one row of running_sessions. AvgHeartRateBpm stays a
// pointer because the mobile client only backfills it once enough samples
// exist; the stats aggregation must skip sessions where it is still null.
type RunningSession struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"user_id"`
	Status              string     `json:"status"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             *time.Time `json:"end_time,omitempty"`
	TotalDistanceKm     float64    `json:"total_distance_km"`
	CurrentPaceMinKm    float64    `json:"current_pace_min_km"`
	AvgPaceMinKm        float64    `json:"avg_pace_min_km"`
	AvgCadenceSpm       float64    `json:"avg_cadence_spm"`
	AvgHeartRateBpm     *float64   `json:"avg_heart_rate_bpm"`
	CurrentHeartRateBpm int        `json:"current_heart_rate_bpm"`
	DurationSeconds     int64      `json:"duration_seconds"`
	LastHeartbeatAt     time.Time  `json:"last_heartbeat_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

type HeartRateSample struct {
	ID                 int64     `json:"id"`
	SessionID          string    `json:"session_id"`
	TimestampOffsetSec int       `json:"timestamp_offset_seconds"`
	HeartRateBpm       int       `json:"heart_rate_bpm"`
	RecordedAt         time.Time `json:"recorded_at"`
}

type SessionAlert struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Severity     string    `json:"severity"`
	HeartRateBpm int       `json:"heart_rate_bpm"`
	Message      string    `json:"message"`
	Resolved     bool      `json:"resolved"`
	CreatedAt    time.Time `json:"created_at"`
}

type MusicHistoryEntry struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	TrackID    string    `json:"track_id"`
	TrackName  string    `json:"track_name"`
	ArtistName string    `json:"artist_name"`
	PlayOrder  int       `json:"play_order"`
	WasSkipped bool      `json:"was_skipped"`
	WasLiked   bool      `json:"was_liked"`
	PlayedAt   time.Time `json:"played_at"`
}

type GPSPoint struct {
	ID                 int64   `json:"id"`
	SessionID          string  `json:"session_id"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	AltitudeM          float64 `json:"altitude_m"`
	TimestampOffsetSec int     `json:"timestamp_offset_seconds"`
}

type PaceInterval struct {
	ID              int64   `json:"id"`
	SessionID       string  `json:"session_id"`
	IntervalNumber  int     `json:"interval_number"`
	DistanceKm      float64 `json:"distance_km"`
	PaceMinKm       float64 `json:"pace_min_km"`
	DurationSeconds int     `json:"duration_seconds"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ListItem is the flattened per-session view the dashboard's session table
// renders. CompletedSongs/SkippedSongs/LikedSongs stay zero in the list view;
// only the detail endpoint pays for the per-flag scan.
type ListItem struct {
	SessionID       string     `json:"session_id"`
	Status          string     `json:"status"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	DistanceKm      float64    `json:"distance_km"`
	AvgPaceMinKm    float64    `json:"avg_pace_min_km"`
	AvgCadenceSpm   float64    `json:"avg_cadence_spm"`
	AvgHeartRateBpm float64    `json:"avg_heart_rate_bpm"`
	TotalSongs      int        `json:"total_songs"`
	CompletedSongs  int        `json:"completed_songs"`
	SkippedSongs    int        `json:"skipped_songs"`
	LikedSongs      int        `json:"liked_songs"`
}

// Detail embeds the session row with its owner and all child collections.
type Detail struct {
	RunningSession
	Username       string              `json:"username"`
	Email          string              `json:"email"`
	TotalSongs     int                 `json:"total_songs"`
	CompletedSongs int                 `json:"completed_songs"`
	SkippedSongs   int                 `json:"skipped_songs"`
	LikedSongs     int                 `json:"liked_songs"`
	HeartRateData  []HeartRateSample   `json:"heart_rate_data"`
	MusicHistory   []MusicHistoryEntry `json:"music_history"`
	GPSPoints      []GPSPoint          `json:"gps_points"`
	PaceIntervals  []PaceInterval      `json:"pace_intervals"`
}

// UserStats is one row of the users-with-stats table.
type UserStats struct {
	UserID               string    `json:"user_id"`
	UserEmail            string    `json:"user_email"`
	UserName             string    `json:"user_name"`
	TotalSessions        int       `json:"total_sessions"`
	TotalDistanceKm      float64   `json:"total_distance_km"`
	TotalDurationSeconds int64     `json:"total_duration_seconds"`
	AvgHeartRateBpm      float64   `json:"avg_heart_rate_bpm"`
	TotalSongs           int       `json:"total_songs"`
	LastSessionDate      time.Time `json:"last_session_date"`
	CreatedAt            time.Time `json:"created_at"`
}
