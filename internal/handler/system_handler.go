package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	metricsInterval = 7 * time.Second
	probeTimeout    = 2 * time.Second
)

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WindowCounter reports how many super-admin session windows are open.
type WindowCounter interface {
	Active() int
}

// SystemHandler serves health checks and a live process metrics stream.
type SystemHandler struct {
	db        Pinger
	rdb       *redis.Client
	windows   WindowCounter
	startTime time.Time
	log       zerolog.Logger

	// CPU delta state
	prevIdle  uint64
	prevTotal uint64
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db Pinger, rdb *redis.Client, windows WindowCounter, log zerolog.Logger) *SystemHandler {
	h := &SystemHandler{
		db:        db,
		rdb:       rdb,
		windows:   windows,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
	h.prevIdle, h.prevTotal, _ = readCPUStat()
	return h
}

// Health godoc
// GET /health
// Reports 503 when Postgres or Redis does not answer.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	checks := gin.H{"postgres": "ok", "redis": "ok"}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

type systemMetrics struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	// OS
	CPUPercent    float64 `json:"cpu_percent"`
	MemUsedBytes  uint64  `json:"mem_used_bytes"`
	MemTotalBytes uint64  `json:"mem_total_bytes"`
	LoadAvg1      float64 `json:"load_avg_1"`

	// Go application
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`

	// Clinic
	QueueMail      int64 `json:"queue_mail"`
	SessionWindows int   `json:"session_windows"`
}

// MetricsSSE godoc
// GET /api/v1/admin/system/metrics
func (h *SystemHandler) MetricsSSE(c *gin.Context) {
	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	h.log.Info().Msg("Super admin connected to system metrics SSE")

	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	h.writeMetrics(c)
	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Msg("Super admin disconnected from system metrics SSE")
			return
		case <-ticker.C:
			h.writeMetrics(c)
		}
	}
}

func (h *SystemHandler) writeMetrics(c *gin.Context) {
	data, err := json.Marshal(h.collect(c.Request.Context()))
	if err != nil {
		return
	}
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(data)
	c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}

func (h *SystemHandler) collect(ctx context.Context) systemMetrics {
	m := systemMetrics{
		Timestamp:      time.Now().Unix(),
		Uptime:         time.Since(h.startTime).Truncate(time.Second).String(),
		GoVersion:      runtime.Version(),
		SessionWindows: h.windows.Active(),
	}

	if idle, total, err := readCPUStat(); err == nil && total > h.prevTotal {
		m.CPUPercent = (1 - float64(idle-h.prevIdle)/float64(total-h.prevTotal)) * 100
		h.prevIdle, h.prevTotal = idle, total
	}
	if total, avail, err := readMemInfo(); err == nil && total > 0 {
		m.MemTotalBytes = total
		m.MemUsedBytes = total - avail
	}
	m.LoadAvg1, _ = readLoadAvg()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.Goroutines = runtime.NumGoroutine()
	m.HeapAlloc = ms.HeapAlloc
	m.NumGC = ms.NumGC

	qctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	m.QueueMail, _ = h.rdb.LLen(qctx, config.WorkerKey.NotifyEmailQueue).Result()

	return m
}

// readCPUStat parses the aggregate line of /proc/stat into idle and total ticks.
func readCPUStat() (idle, total uint64, err error) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(strings.SplitN(string(data), "\n", 2)[0])
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0, 0, errors.New("unexpected /proc/stat format")
	}
	for i := 1; i < len(fields); i++ {
		val, _ := strconv.ParseUint(fields[i], 10, 64)
		total += val
		if i == 4 {
			idle = val
		}
	}
	return idle, total, nil
}

// readMemInfo returns MemTotal and MemAvailable in bytes.
func readMemInfo() (total, available uint64, err error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		kb, _ := strconv.ParseUint(fields[1], 10, 64)
		switch fields[0] {
		case "MemTotal:":
			total = kb * 1024
		case "MemAvailable:":
			available = kb * 1024
		}
	}
	return total, available, scanner.Err()
}

func readLoadAvg() (float64, error) {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) < 1 {
		return 0, fmt.Errorf("unexpected /proc/loadavg format")
	}
	return strconv.ParseFloat(fields[0], 64)
}
