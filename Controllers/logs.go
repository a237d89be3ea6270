package Controllers

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"InspectionPro/middleware"
)

const requestLogFile = "logs/requests.log"

// parseDateRange reads date_from/date_to query params. With neither set the
// range is today.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	dateFromStr := c.Query("date_from", "")
	dateToStr := c.Query("date_to", "")

	if dateFromStr == "" && dateToStr == "" {
		now := time.Now()
		dateFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		dateTo := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		return dateFrom, dateTo, nil
	}

	dateFrom := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if dateFromStr != "" {
		parsed, err := time.Parse("2006-01-02", dateFromStr)
		if err != nil {
			return dateFrom, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid date_from format. Use YYYY-MM-DD")
		}
		dateFrom = parsed
	}

	dateTo := time.Now()
	if dateToStr != "" {
		parsed, err := time.Parse("2006-01-02", dateToStr)
		if err != nil {
			return dateFrom, dateTo, fiber.NewError(fiber.StatusBadRequest, "Invalid date_to format. Use YYYY-MM-DD")
		}
		dateTo = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999999999, parsed.Location())
	}

	return dateFrom, dateTo, nil
}

func readRequestLogs(dateFrom, dateTo time.Time) ([]middleware.LogData, error) {
	file, err := os.Open(requestLogFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var logs []middleware.LogData
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry middleware.LogData
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Timestamp.After(dateFrom) && entry.Timestamp.Before(dateTo) {
			logs = append(logs, entry)
		}
	}
	return logs, scanner.Err()
}

// GetLogs lists request log entries, newest first, with date and path filters
func GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 50
	}

	dateFrom, dateTo, err := parseDateRange(c)
	if err != nil {
		return err
	}

	logs, err := readRequestLogs(dateFrom, dateTo)
	if err != nil {
		log.Printf("Error reading request logs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	pathFilter := strings.ToLower(c.Query("path", ""))
	methodFilter := strings.ToUpper(c.Query("method", ""))
	statusFilter, _ := strconv.Atoi(c.Query("status", "0"))

	var filtered []middleware.LogData
	for _, entry := range logs {
		if pathFilter != "" && !strings.Contains(strings.ToLower(entry.Path), pathFilter) {
			continue
		}
		if methodFilter != "" && strings.ToUpper(entry.Method) != methodFilter {
			continue
		}
		if statusFilter != 0 && entry.Status != statusFilter {
			continue
		}
		filtered = append(filtered, entry)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	totalLogs := len(filtered)
	totalPages := (totalLogs + pageSize - 1) / pageSize
	startIndex := (page - 1) * pageSize
	if startIndex > totalLogs {
		startIndex = totalLogs
	}
	endIndex := startIndex + pageSize
	if endIndex > totalLogs {
		endIndex = totalLogs
	}

	return c.JSON(fiber.Map{
		"logs":        filtered[startIndex:endIndex],
		"total_logs":  totalLogs,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
		"date_from":   dateFrom,
		"date_to":     dateTo,
	})
}

// GetLogStats summarizes request traffic for the selected date range
func GetLogStats(c *fiber.Ctx) error {
	dateFrom, dateTo, err := parseDateRange(c)
	if err != nil {
		return err
	}

	logs, err := readRequestLogs(dateFrom, dateTo)
	if err != nil {
		log.Printf("Error reading request logs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	var successful, errored int
	var totalLatency, minLatency, maxLatency time.Duration
	methodStats := make(map[string]int)
	statusStats := make(map[int]int)
	pathStats := make(map[string]int)

	for i, entry := range logs {
		if entry.Status >= 200 && entry.Status < 300 {
			successful++
		} else if entry.Status >= 400 {
			errored++
		}

		totalLatency += entry.Latency
		if i == 0 || entry.Latency < minLatency {
			minLatency = entry.Latency
		}
		if entry.Latency > maxLatency {
			maxLatency = entry.Latency
		}

		methodStats[entry.Method]++
		statusStats[entry.Status]++
		pathStats[entry.Path]++
	}

	total := len(logs)
	avgLatency := time.Duration(0)
	successRate := 0.0
	if total > 0 {
		avgLatency = totalLatency / time.Duration(total)
		successRate = float64(successful) / float64(total) * 100
	}

	type pathCount struct {
		Path  string `json:"path"`
		Count int    `json:"count"`
	}
	topPaths := make([]pathCount, 0, len(pathStats))
	for path, count := range pathStats {
		topPaths = append(topPaths, pathCount{Path: path, Count: count})
	}
	sort.Slice(topPaths, func(i, j int) bool {
		return topPaths[i].Count > topPaths[j].Count
	})
	if len(topPaths) > 10 {
		topPaths = topPaths[:10]
	}

	return c.JSON(fiber.Map{
		"total_requests":      total,
		"successful_requests": successful,
		"error_requests":      errored,
		"success_rate":        successRate,
		"avg_latency_ms":      float64(avgLatency.Microseconds()) / 1000.0,
		"min_latency_ms":      float64(minLatency.Microseconds()) / 1000.0,
		"max_latency_ms":      float64(maxLatency.Microseconds()) / 1000.0,
		"method_stats":        methodStats,
		"status_stats":        statusStats,
		"top_paths":           topPaths,
		"date_from":           dateFrom,
		"date_to":             dateTo,
	})
}
