// Package main runs a few message-passing tasks and reports their results.
//
// Configuration is read from the environment:
//
//	N             number of worker tasks in the fan-out scenario (default 8)
//	MSGS          messages per worker (default 1000)
//	MAX_TASKS     scheduler concurrency limit, 0 = unlimited (default 0)
//	RECV_TIMEOUT  idle timeout of the echo task (default 200ms)
//	LOG_LEVEL     debug|info|warn|error (default info)
//	METRICS_ADDR  if set, serve Prometheus metrics there and keep running
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	promadapter "github.com/H1ghBre4k3r/message-passing/adapters/prometheus"
	"github.com/H1ghBre4k3r/message-passing/core/task"
)

// === Config ===

var (
	numWorkers  = getEnvInt("N", 8)
	numMessages = getEnvInt("MSGS", 1_000)
	maxTasks    = getEnvInt("MAX_TASKS", 0)
	recvTimeout = getEnvDuration("RECV_TIMEOUT", 200*time.Millisecond)
	logLevel    = getEnv("LOG_LEVEL", "info")
	metricsAddr = getEnv("METRICS_ADDR", "")
)

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return v
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(logLevel)}))
	slog.SetDefault(log)

	reg := prometheus.NewRegistry()
	m := promadapter.NewTaskMetrics(reg)
	sched := task.NewSchedulerWithMetrics(maxTasks, ctx, "demo", m)

	opts := []task.Option{
		task.WithLogger(log),
		task.WithMetrics(m),
		task.WithScheduler(sched),
	}

	if err := run(ctx, log, opts); err != nil {
		log.Error("demo failed", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsAddr == "" {
		return
	}

	srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", slog.String("addr", metricsAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, opts []task.Option) error {
	// === sum ===

	sum := task.Spawn(func(mb *task.Mailbox[int]) int {
		total := 0
		for i := 0; i < 3; i++ {
			total += mb.MustRecv()
		}
		return total
	}, slices.Concat(opts, []task.Option{task.WithName("sum")})...)

	for _, v := range []int{10, 20, 30} {
		if err := sum.Send(v); err != nil {
			return err
		}
	}
	total, err := sum.Join(ctx)
	if err != nil {
		return err
	}
	log.Info("sum", slog.Int("result", total))

	// === fan-out ===

	startAt := time.Now()
	var g task.Group[int]
	for w := 0; w < numWorkers; w++ {
		h := task.Spawn(func(mb *task.Mailbox[int]) int {
			acc := 0
			for v, ok := mb.Recv(); ok; v, ok = mb.Recv() {
				acc += v
			}
			return acc
		}, slices.Concat(opts, []task.Option{task.WithName("worker")})...)

		for i := 1; i <= numMessages; i++ {
			if err := h.Send(i); err != nil {
				return err
			}
		}
		g.Add(h)
	}

	results, err := g.Wait(ctx)
	if err != nil {
		return err
	}
	log.Info("fan-out",
		slog.Int("workers", numWorkers),
		slog.Int("messages", numWorkers*numMessages),
		slog.Any("results", results),
		slog.Duration("took", time.Since(startAt)),
	)

	// === echo with idle timeout ===

	replies := make(chan string, 16)
	echo := task.Spawn(func(mb *task.Mailbox[string]) int {
		n := 0
		for {
			msg, ok, err := mb.RecvTimeout(recvTimeout)
			switch {
			case errors.Is(err, task.ErrTimeout):
				log.Info("echo idle, stopping", slog.Int("echoed", n))
				return n
			case !ok:
				return n
			}
			replies <- strings.ToUpper(msg)
			n++
		}
	}, slices.Concat(opts, []task.Option{task.WithName("echo")})...)

	for _, s := range []string{"hello", "world"} {
		if err := echo.Send(s); err != nil {
			return err
		}
		log.Info("echo", slog.String("reply", <-replies))
	}

	<-echo.Done()
	if err := echo.Send("late"); err != nil {
		var sendErr *task.SendError[string]
		if errors.As(err, &sendErr) {
			log.Info("echo gone, message returned", slog.String("msg", sendErr.Msg))
		}
	}
	if _, err := echo.Join(ctx); err != nil {
		return err
	}

	// === failure ===

	faulty := task.Spawn(func(mb *task.Mailbox[int]) int {
		return 100 / mb.MustRecv()
	}, slices.Concat(opts, []task.Option{task.WithName("faulty")})...)

	if err := faulty.Send(0); err != nil {
		return err
	}
	if _, err := faulty.Join(ctx); err != nil {
		if !errors.Is(err, task.ErrTaskPanicked) {
			return err
		}
		log.Info("faulty task failed as expected", slog.Any("error", err))
	}

	return nil
}
