package simulator

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/KpG782/Pacebeats-admin-sub001/internal/stream"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	return mock
}

func TestNextHeartRateStaysBounded(t *testing.T) {
	sim := New(nil, nil, Config{UserID: "u1"})
	sim.rng = rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		hr := sim.nextHeartRate()
		if hr < minHeartRate || hr > ceilingRate {
			t.Fatalf("heart rate %d out of [%d,%d] at step %d", hr, minHeartRate, ceilingRate, i)
		}
		sim.heartRate = hr
	}
}

func TestStartCreatesActiveSession(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO running_sessions`).
		WithArgs(pgxmock.AnyArg(), "u1", pgxmock.AnyArg(), minHeartRate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	sim := New(mock, nil, Config{UserID: "u1"})
	if err := sim.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if sim.SessionID() == "" {
		t.Fatalf("expected session id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStartRequiresUser(t *testing.T) {
	sim := New(nil, nil, Config{})
	if err := sim.Start(context.Background()); err == nil {
		t.Fatalf("expected error without user id")
	}
}

func TestTickWritesSessionAndSample(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	t0 := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	tickAt := t0.Add(3 * time.Second)

	sim := New(mock, nil, Config{UserID: "u1"})
	sim.rng = rand.New(rand.NewSource(1))
	sim.sessionID = "s1"
	sim.startedAt = t0
	sim.now = func() time.Time { return tickAt }

	// 3 elapsed seconds over 0.05 km is a 1.0 min/km pace.
	mock.ExpectExec(`UPDATE running_sessions`).
		WithArgs("s1", 0.05, 1.0, pgxmock.AnyArg(), int64(3), tickAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectExec(`INSERT INTO session_heart_rate_data`).
		WithArgs("s1", 3, pgxmock.AnyArg(), tickAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := sim.tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	// One step from 120 tops out at 135, far below the alert threshold,
	// so no alert insert may happen.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	if sim.heartRate < minHeartRate || sim.heartRate > ceilingRate {
		t.Fatalf("heart rate %d out of bounds", sim.heartRate)
	}
}

func TestTickRaisesCriticalAlert(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	t0 := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	tickAt := t0.Add(6 * time.Second)

	sim := New(mock, nil, Config{UserID: "u1"})
	sim.rng = rand.New(rand.NewSource(1))
	sim.sessionID = "s1"
	sim.startedAt = t0
	sim.now = func() time.Time { return tickAt }
	// From 185 the walk can only land in [180,190]: always CRITICAL.
	sim.heartRate = 185

	mock.ExpectExec(`UPDATE running_sessions`).
		WithArgs("s1", 0.05, pgxmock.AnyArg(), pgxmock.AnyArg(), int64(6), tickAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO session_heart_rate_data`).
		WithArgs("s1", 6, pgxmock.AnyArg(), tickAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO session_alerts`).
		WithArgs(pgxmock.AnyArg(), "s1", "CRITICAL", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := sim.tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStopMarksCompleted(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	t0 := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	endAt := t0.Add(2 * time.Minute)

	sim := New(mock, nil, Config{UserID: "u1"})
	sim.sessionID = "s1"
	sim.startedAt = t0
	sim.now = func() time.Time { return endAt }

	mock.ExpectExec(`UPDATE running_sessions`).
		WithArgs("s1", endAt, int64(120)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := sim.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPublishTelemetryFrame(t *testing.T) {
	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, stream.TelemetryChannel("s1"))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sim := New(nil, client, Config{UserID: "u1"})
	sim.sessionID = "s1"
	sim.distanceKm = 0.1
	sim.heartRate = 130

	sim.publish(ctx, time.Now(), 6, 1.0)

	select {
	case msg := <-sub.Channel():
		var frame telemetryFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if frame.SessionID != "s1" || frame.HeartRateBpm != 130 || frame.ElapsedSeconds != 6 {
			t.Fatalf("unexpected frame: %+v", frame)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for telemetry frame")
	}
}

func TestPublishWithoutRedisIsNoop(t *testing.T) {
	sim := New(nil, nil, Config{UserID: "u1"})
	sim.sessionID = "s1"
	// Must not panic with no redis client configured.
	sim.publish(context.Background(), time.Now(), 3, 1.0)
}
