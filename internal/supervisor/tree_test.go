// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/itemsim/internal/metrics"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("creates hierarchical supervisor tree", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureThreshold: 5,
			FailureBackoff:   time.Second,
			ShutdownTimeout:  10 * time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.Root() == nil || tree.training == nil || tree.api == nil {
			t.Error("supervisors should not be nil")
		}
	})

	t.Run("applies default values for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
		}
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	t.Run("tree starts services and stops gracefully", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
			FailureBackoff:  100 * time.Millisecond,
			ShutdownTimeout: time.Second,
		})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}

		trainSvc := newMockService("mock-training")
		apiSvc := newMockService("mock-api")
		tree.AddTrainingService(trainSvc)
		tree.AddAPIService(apiSvc)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := tree.ServeBackground(ctx)

		time.Sleep(100 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("tree did not shut down in time")
		}

		if trainSvc.starts() < 1 || apiSvc.starts() < 1 {
			t.Errorf("starts = training:%d api:%d, want both >= 1", trainSvc.starts(), apiSvc.starts())
		}

		report, err := tree.UnstoppedServiceReport()
		if err != nil {
			t.Fatalf("UnstoppedServiceReport() error = %v", err)
		}
		if len(report) != 0 {
			t.Errorf("unstopped services: %v", report)
		}
	})
}

func TestSupervisorTreeFailureHandling(t *testing.T) {
	tests := []struct {
		name   string
		panics bool
	}{
		{"error return", false},
		{"panic", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
				FailureThreshold: 10,
				FailureBackoff:   10 * time.Millisecond,
				ShutdownTimeout:  time.Second,
			})

			failing := newMockService("failing-" + tt.name)
			failing.setFailCount(2, tt.panics)
			stable := newMockService("stable")

			tree.AddTrainingService(failing)
			tree.AddAPIService(stable)

			before := testutil.ToFloat64(metrics.ServiceRestarts.WithLabelValues(failing.String()))

			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()
			errCh := tree.ServeBackground(ctx)
			time.Sleep(200 * time.Millisecond)

			if failing.starts() < 3 {
				t.Errorf("failing service starts = %d, want >= 3", failing.starts())
			}
			if stable.starts() != 1 {
				t.Errorf("stable service starts = %d, want 1", stable.starts())
			}
			if got := testutil.ToFloat64(metrics.ServiceRestarts.WithLabelValues(failing.String())) - before; got < 2 {
				t.Errorf("restart counter delta = %v, want >= 2", got)
			}

			cancel()
			<-errCh
		})
	}
}

func TestCountingHook(t *testing.T) {
	var forwarded int
	hook := countingHook(func(suture.Event) { forwarded++ })

	before := testutil.ToFloat64(metrics.ServiceRestarts.WithLabelValues("hook-test"))

	hook(suture.EventServiceTerminate{ServiceName: "hook-test", Restarting: true})
	hook(suture.EventServiceTerminate{ServiceName: "hook-test", Restarting: false})
	hook(suture.EventServicePanic{ServiceName: "hook-test", Restarting: true})
	hook(suture.EventStopTimeout{ServiceName: "hook-test"})

	if forwarded != 4 {
		t.Errorf("forwarded %d events, want 4", forwarded)
	}
	if got := testutil.ToFloat64(metrics.ServiceRestarts.WithLabelValues("hook-test")) - before; got != 2 {
		t.Errorf("restart counter delta = %v, want 2", got)
	}
}

func TestDefaultTreeConfig(t *testing.T) {
	config := DefaultTreeConfig()

	if config.FailureThreshold != 5.0 {
		t.Errorf("expected FailureThreshold 5.0, got %f", config.FailureThreshold)
	}
	if config.FailureDecay != 30.0 {
		t.Errorf("expected FailureDecay 30.0, got %f", config.FailureDecay)
	}
	if config.FailureBackoff != 15*time.Second {
		t.Errorf("expected FailureBackoff 15s, got %v", config.FailureBackoff)
	}
	if config.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected ShutdownTimeout 10s, got %v", config.ShutdownTimeout)
	}
}
