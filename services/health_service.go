package services

import (
	"context"
	"runtime"
	"time"

	"gymdesk_go/config"
	"gymdesk_go/database"
)

const healthProbeTimeout = 1500 * time.Millisecond

// HealthService reports the liveness of the API and its backing services.
// MySQL down makes the report critical; Redis down only degrades it because
// every Redis consumer falls back to the database.
type HealthService struct {
	serviceName string
	version     string
	startTime   time.Time
}

// HealthReport is the JSON body of the health endpoint.
type HealthReport struct {
	Status        string          `json:"status"`
	Service       string          `json:"service"`
	Version       string          `json:"version"`
	Environment   string          `json:"environment"`
	Time          time.Time       `json:"time"`
	UptimeSeconds float64         `json:"uptime_seconds"`
	Dependencies  []ProbeResult   `json:"dependencies"`
	Runtime       RuntimeSnapshot `json:"runtime"`
	Flags         map[string]bool `json:"flags"`
}

// ProbeResult is the outcome of pinging one backing service.
type ProbeResult struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// RuntimeSnapshot carries Go runtime figures for diagnostics.
type RuntimeSnapshot struct {
	GoVersion      string `json:"go_version"`
	Goroutines     int    `json:"goroutines"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	SysBytes       uint64 `json:"sys_bytes"`
	NumGC          uint32 `json:"num_gc"`
}

func NewHealthService(serviceName, version string) *HealthService {
	if serviceName == "" {
		serviceName = "GymDesk API"
	}
	if version == "" {
		version = "1.0.0"
	}
	return &HealthService{
		serviceName: serviceName,
		version:     version,
		startTime:   time.Now(),
	}
}

// GetHealthReport probes MySQL and Redis and assembles the report.
func (s *HealthService) GetHealthReport() HealthReport {
	ctx, cancel := context.WithTimeout(context.Background(), healthProbeTimeout)
	defer cancel()

	report := HealthReport{
		Status:        "ok",
		Service:       s.serviceName,
		Version:       s.version,
		Environment:   s.environment(),
		Time:          time.Now().UTC(),
		UptimeSeconds: time.Since(s.startTime).Seconds(),
	}

	db := s.probeDatabase(ctx)
	report.Dependencies = append(report.Dependencies, db)
	if db.Status == "down" {
		report.Status = "critical"
	}

	rd := s.probeRedis(ctx)
	report.Dependencies = append(report.Dependencies, rd)
	if rd.Status == "down" && report.Status == "ok" {
		report.Status = "degraded"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	report.Runtime = RuntimeSnapshot{
		GoVersion:      runtime.Version(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: mem.HeapAlloc,
		SysBytes:       mem.Sys,
		NumGC:          mem.NumGC,
	}

	if config.AppConfig != nil {
		report.Flags = map[string]bool{
			"skip_migrate":            config.AppConfig.SkipMigrate,
			"schedule_strict_overlap": config.AppConfig.ScheduleStrictOverlap,
		}
	}

	return report
}

// HTTPStatusForOverall maps a report status to the HTTP code to send with it.
func (s *HealthService) HTTPStatusForOverall(status string) int {
	if status == "critical" {
		return 503
	}
	return 200
}

func (s *HealthService) probeDatabase(ctx context.Context) ProbeResult {
	probe := ProbeResult{Name: "mysql", Status: "down"}

	if database.DB == nil {
		probe.Error = "database connection not initialised"
		return probe
	}
	sqlDB, err := database.DB.DB()
	if err != nil {
		probe.Error = err.Error()
		return probe
	}

	start := time.Now()
	err = sqlDB.PingContext(ctx)
	probe.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		probe.Error = err.Error()
		return probe
	}

	probe.Status = "up"
	return probe
}

func (s *HealthService) probeRedis(ctx context.Context) ProbeResult {
	probe := ProbeResult{Name: "redis"}

	client := database.GetRedisClient()
	if client == nil {
		probe.Status = "disabled"
		return probe
	}

	start := time.Now()
	err := client.Ping(ctx).Err()
	probe.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		probe.Status = "down"
		probe.Error = err.Error()
		return probe
	}

	probe.Status = "up"
	return probe
}

func (s *HealthService) environment() string {
	if config.AppConfig == nil || config.AppConfig.AppEnv == "" {
		return "unknown"
	}
	return config.AppConfig.AppEnv
}
