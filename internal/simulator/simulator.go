package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/KpG782/Pacebeats-admin-sub001/internal/db"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/shared/pace"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/stream"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	minHeartRate   = 120
	maxWalkRate    = 185
	ceilingRate    = 190
	highThreshold  = 165
	critThreshold  = 180
	spikeChance    = 0.10
	distanceStepKm = 0.05
)

type Config struct {
	UserID       string
	TickInterval time.Duration
	MaxDuration  time.Duration
}

// Simulator emulates one live mobile client writing straight to the store.
// It is a demo fixture: no retry, no backpressure, no guard against another
// active session for the same user.
type Simulator struct {
	db    db.Querier
	redis *redis.Client
	cfg   Config

	rng *rand.Rand
	now func() time.Time

	sessionID  string
	startedAt  time.Time
	distanceKm float64
	heartRate  int
}

func New(q db.Querier, rdb *redis.Client, cfg Config) *Simulator {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 3 * time.Second
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 5 * time.Minute
	}
	return &Simulator{
		db:        q,
		redis:     rdb,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		heartRate: minHeartRate,
	}
}

func (s *Simulator) SessionID() string {
	return s.sessionID
}

// Start creates the session row the ticks will keep updating.
func (s *Simulator) Start(ctx context.Context) error {
	if s.cfg.UserID == "" {
		return errors.New("simulator: user id required")
	}

	s.sessionID = uuid.NewString()
	s.startedAt = s.now()
	s.distanceKm = 0
	s.heartRate = minHeartRate

	_, err := s.db.Exec(ctx, `
		INSERT INTO running_sessions
			(id, user_id, status, start_time, total_distance_km, current_heart_rate_bpm, duration_seconds, last_heartbeat_at)
		VALUES ($1,$2,'active',$3,0,$4,0,$3)
	`, s.sessionID, s.cfg.UserID, s.startedAt, s.heartRate)
	return err
}

// Run ticks until the context is cancelled or the wall-clock ceiling passes,
// then marks the session completed. Each tick finishes all of its writes
// before the next one fires.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	deadline := s.startedAt.Add(s.cfg.MaxDuration)
	for {
		select {
		case <-ctx.Done():
			return s.Stop(context.Background())
		case <-ticker.C:
			if s.now().After(deadline) {
				return s.Stop(ctx)
			}
			if err := s.tick(ctx); err != nil {
				log.Printf("simulator tick failed: %v", err)
			}
		}
	}
}

// Stop marks the session completed and freezes its duration.
func (s *Simulator) Stop(ctx context.Context) error {
	endedAt := s.now()
	_, err := s.db.Exec(ctx, `
		UPDATE running_sessions
		SET status='completed', end_time=$2, duration_seconds=$3
		WHERE id=$1
	`, s.sessionID, endedAt, int64(endedAt.Sub(s.startedAt).Seconds()))
	return err
}

func (s *Simulator) tick(ctx context.Context) error {
	recordedAt := s.now()
	elapsed := recordedAt.Sub(s.startedAt)
	elapsedSec := int(elapsed.Seconds())

	s.distanceKm += distanceStepKm
	currentPace := pace.MinutesPerKm(elapsed.Seconds(), s.distanceKm)
	s.heartRate = s.nextHeartRate()

	// last_heartbeat_at is what the active-runners feed sorts and
	// liveness-checks on; it must move every tick.
	if _, err := s.db.Exec(ctx, `
		UPDATE running_sessions
		SET total_distance_km=$2, current_pace_min_km=$3, avg_pace_min_km=$3,
		    current_heart_rate_bpm=$4, duration_seconds=$5, last_heartbeat_at=$6
		WHERE id=$1
	`, s.sessionID, s.distanceKm, currentPace, s.heartRate, int64(elapsedSec), recordedAt); err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO session_heart_rate_data (session_id, timestamp_offset_seconds, heart_rate_bpm, recorded_at)
		VALUES ($1,$2,$3,$4)
	`, s.sessionID, elapsedSec, s.heartRate, recordedAt); err != nil {
		return err
	}

	if s.heartRate >= highThreshold {
		severity := "HIGH"
		if s.heartRate >= critThreshold {
			severity = "CRITICAL"
		}
		if _, err := s.db.Exec(ctx, `
			INSERT INTO session_alerts (id, session_id, severity, heart_rate_bpm, message, resolved)
			VALUES ($1,$2,$3,$4,$5,FALSE)
		`, uuid.NewString(), s.sessionID, severity, s.heartRate,
			"Heart rate "+severity+" threshold crossed"); err != nil {
			return err
		}
	}

	s.publish(ctx, recordedAt, elapsedSec, currentPace)
	return nil
}

// nextHeartRate advances the bounded random walk: a +/-5 bpm base step
// clamped to [120,185], a 10% chance of an extra positive spike, then an
// absolute ceiling of 190.
func (s *Simulator) nextHeartRate() int {
	next := s.heartRate + s.rng.Intn(11) - 5
	next = pace.ClampBpm(next, minHeartRate, maxWalkRate)
	if s.rng.Float64() < spikeChance {
		next += 5 + s.rng.Intn(11)
	}
	return pace.ClampBpm(next, minHeartRate, ceilingRate)
}

type telemetryFrame struct {
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	DistanceKm     float64   `json:"distance_km"`
	PaceMinKm      float64   `json:"pace_min_km"`
	HeartRateBpm   int       `json:"heart_rate_bpm"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	RecordedAt     time.Time `json:"recorded_at"`
}

func (s *Simulator) publish(ctx context.Context, recordedAt time.Time, elapsedSec int, currentPace float64) {
	if s.redis == nil {
		return
	}
	payload, _ := json.Marshal(telemetryFrame{
		SessionID:      s.sessionID,
		UserID:         s.cfg.UserID,
		DistanceKm:     s.distanceKm,
		PaceMinKm:      currentPace,
		HeartRateBpm:   s.heartRate,
		ElapsedSeconds: elapsedSec,
		RecordedAt:     recordedAt,
	})
	if err := s.redis.Publish(ctx, stream.TelemetryChannel(s.sessionID), payload).Err(); err != nil {
		log.Printf("simulator: telemetry publish failed: %v", err)
	}
}
