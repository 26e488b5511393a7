package Controllers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"Fleetbook/Models"
	"Fleetbook/Reports"
)

// LogEntry is one line of the request log written by middleware.LoggingMiddleware
type LogEntry struct {
	Time          time.Time `json:"time"`
	Level         string    `json:"level"`
	Method        string    `json:"method"`
	Path          string    `json:"path"`
	URL           string    `json:"url"`
	Status        int       `json:"status"`
	LatencyMs     float64   `json:"latency_ms"`
	IP            string    `json:"ip"`
	UserAgent     string    `json:"user_agent"`
	RequestID     string    `json:"request_id"`
	ContentLength int       `json:"content_length"`
	Error         string    `json:"error,omitempty"`
}

func (e LogEntry) ok() bool {
	return e.Status >= 200 && e.Status < 300
}

// LogGroup collects the entries of one method and path
type LogGroup struct {
	Path        string     `json:"path"`
	Method      string     `json:"method"`
	Count       int        `json:"count"`
	AvgLatency  float64    `json:"avg_latency_ms"`
	MinLatency  float64    `json:"min_latency_ms"`
	MaxLatency  float64    `json:"max_latency_ms"`
	SuccessRate float64    `json:"success_rate"`
	Logs        []LogEntry `json:"logs"`
}

// LogHandler exposes the request log for operators
type LogHandler struct {
	FilePath string
}

func NewLogHandler(filePath string) *LogHandler {
	return &LogHandler{FilePath: filePath}
}

// logWindow reads date_from/date_to, defaulting to today.
func logWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, to := c.Query("date_from"), c.Query("date_to")
	if from == "" && to == "" {
		from, to = today(), today()
	}
	if from == "" {
		from = "1970-01-01"
	}
	if to == "" {
		to = today()
	}
	period, err := Reports.ParseRange(from, to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return period.Start, period.End.AddDate(0, 0, 1), nil
}

// readLogs returns the entries logged in [from, to). A missing file is an
// empty log.
func (h *LogHandler) readLogs(from, to time.Time) ([]LogEntry, error) {
	file, err := os.Open(h.FilePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if !entry.Time.Before(from) && entry.Time.Before(to) {
			entries = append(entries, entry)
		}
	}
	return entries, scanner.Err()
}

func filterLogs(entries []LogEntry, path, method, status string) []LogEntry {
	wantStatus, statusErr := strconv.Atoi(status)
	var filtered []LogEntry
	for _, entry := range entries {
		if path != "" && !strings.Contains(strings.ToLower(entry.Path), strings.ToLower(path)) {
			continue
		}
		if method != "" && !strings.EqualFold(entry.Method, method) {
			continue
		}
		if status != "" && statusErr == nil && entry.Status != wantStatus {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// groupLogs groups entries by method and path, busiest first.
func groupLogs(entries []LogEntry) []LogGroup {
	index := make(map[string]*LogGroup)
	var order []string
	successes := make(map[string]int)
	for _, entry := range entries {
		key := entry.Method + " " + entry.Path
		group, ok := index[key]
		if !ok {
			group = &LogGroup{
				Path:       entry.Path,
				Method:     entry.Method,
				MinLatency: entry.LatencyMs,
				MaxLatency: entry.LatencyMs,
			}
			index[key] = group
			order = append(order, key)
		}
		group.Count++
		group.Logs = append(group.Logs, entry)
		group.AvgLatency += (entry.LatencyMs - group.AvgLatency) / float64(group.Count)
		if entry.LatencyMs < group.MinLatency {
			group.MinLatency = entry.LatencyMs
		}
		if entry.LatencyMs > group.MaxLatency {
			group.MaxLatency = entry.LatencyMs
		}
		if entry.ok() {
			successes[key]++
		}
		group.SuccessRate = float64(successes[key]) / float64(group.Count)
	}

	groups := make([]LogGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *index[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// GetLogs lists request log entries grouped by endpoint.
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	from, to, err := logWindow(c)
	if err != nil {
		return inputError(c, "Invalid date range", err)
	}

	entries, err := h.readLogs(from, to)
	if err != nil {
		return storeError(c, "Failed to read logs", err)
	}
	entries = filterLogs(entries, c.Query("path"), c.Query("method"), c.Query("status"))
	groups := groupLogs(entries)

	return c.JSON(fiber.Map{
		"groups":       groups,
		"total_logs":   len(entries),
		"total_groups": len(groups),
		"date_from":    from.Format(Models.DateLayout),
		"date_to":      to.AddDate(0, 0, -1).Format(Models.DateLayout),
	})
}

// GetLogStats summarises the request log.
func (h *LogHandler) GetLogStats(c *fiber.Ctx) error {
	from, to, err := logWindow(c)
	if err != nil {
		return inputError(c, "Invalid date range", err)
	}

	entries, err := h.readLogs(from, to)
	if err != nil {
		return storeError(c, "Failed to read logs", err)
	}

	var successful, failed int
	var totalLatency, minLatency, maxLatency float64
	methods := make(map[string]int)
	statuses := make(map[string]int)
	paths := make(map[string]int)
	for i, entry := range entries {
		switch {
		case entry.ok():
			successful++
		case entry.Status >= 400:
			failed++
		}
		totalLatency += entry.LatencyMs
		if i == 0 || entry.LatencyMs < minLatency {
			minLatency = entry.LatencyMs
		}
		if entry.LatencyMs > maxLatency {
			maxLatency = entry.LatencyMs
		}
		methods[entry.Method]++
		statuses[fmt.Sprintf("%d", entry.Status)]++
		paths[entry.Path]++
	}

	var avgLatency, successRate float64
	if len(entries) > 0 {
		avgLatency = totalLatency / float64(len(entries))
		successRate = float64(successful) / float64(len(entries))
	}

	return c.JSON(fiber.Map{
		"total_requests":      len(entries),
		"successful_requests": successful,
		"error_requests":      failed,
		"success_rate":        successRate,
		"avg_latency_ms":      avgLatency,
		"min_latency_ms":      minLatency,
		"max_latency_ms":      maxLatency,
		"method_stats":        methods,
		"status_stats":        statuses,
		"path_stats":          paths,
	})
}
