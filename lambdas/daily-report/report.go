package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	attendance "ems.com/ems/attendance/core"
	"ems.com/ems/attendance/report"
	"ems.com/ems/security"
	"ems.com/ems/utils"
	"go.uber.org/zap"
)

type ReportEvent struct {
	Date   string `json:"date"`
	DryRun bool   `json:"dryRun"`
	Force  bool   `json:"force"`
}

type ReportResult struct {
	Date           string           `json:"date"`
	Key            string           `json:"key,omitempty"`
	Uploaded       bool             `json:"uploaded"`
	Skipped        bool             `json:"skipped"`
	Total          int64            `json:"total"`
	StatusCounts   map[string]int64 `json:"statusCounts"`
	ApprovalCounts map[string]int64 `json:"approvalCounts"`
}

type archive interface {
	Exists(ctx context.Context, key string) (bool, error)
	WriteFile(ctx context.Context, key, contentType string, body io.Reader) error
}

type poster interface {
	Info(ctx context.Context, message string) error
}

type Reporter struct {
	svc    *attendance.Service
	bucket archive
	slack  poster
	prefix string
	log    *zap.Logger
	now    func() time.Time
}

// Run archives the daily workbook for event.Date, or for yesterday in the
// reporting timezone when no date is given.
func (r *Reporter) Run(ctx context.Context, event ReportEvent) (*ReportResult, error) {
	day := event.Date
	if day == "" {
		day = utils.DayOf(r.now().AddDate(0, 0, -1), r.svc.Location())
	}

	daily, err := r.svc.DailyReport(ctx, security.System, day, attendance.Page{})
	if err != nil {
		return nil, fmt.Errorf("build daily report for %s: %w", day, err)
	}
	result := &ReportResult{
		Date:           daily.Date,
		Total:          daily.Total,
		StatusCounts:   daily.StatusCounts,
		ApprovalCounts: daily.ApprovalCounts,
	}
	r.log.Info("daily report built",
		zap.String("date", day),
		zap.Int64("total", daily.Total),
		zap.Bool("dry_run", event.DryRun),
	)
	if event.DryRun {
		return result, nil
	}

	if r.bucket != nil {
		result.Key = path.Join(r.prefix, report.FileName(day))
		exists, err := r.bucket.Exists(ctx, result.Key)
		if err != nil {
			return nil, err
		}
		if exists && !event.Force {
			r.log.Info("daily report already archived", zap.String("key", result.Key))
			result.Skipped = true
			return result, nil
		}

		var buf bytes.Buffer
		if err := report.WriteDailyReport(&buf, daily, r.svc.Location()); err != nil {
			return nil, err
		}
		if err := r.bucket.WriteFile(ctx, result.Key, report.ContentType, &buf); err != nil {
			return nil, err
		}
		result.Uploaded = true
		r.log.Info("daily report archived", zap.String("key", result.Key))
	}

	if r.slack != nil {
		if err := r.slack.Info(ctx, summary(result)); err != nil {
			r.log.Warn("failed to post daily report summary", zap.Error(err))
		}
	}
	return result, nil
}

func summary(r *ReportResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Attendance %s*: %d records", r.Date, r.Total)
	for _, part := range []struct {
		title  string
		counts map[string]int64
	}{{"status", r.StatusCounts}, {"approval", r.ApprovalCounts}} {
		keys := make([]string, 0, len(part.counts))
		for k := range part.counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := utils.Map(keys, func(k string) string {
			return fmt.Sprintf("%s %d", k, part.counts[k])
		})
		if len(items) > 0 {
			fmt.Fprintf(&b, "\n%s: %s", part.title, strings.Join(items, ", "))
		}
	}
	if r.Key != "" {
		fmt.Fprintf(&b, "\n%s", r.Key)
	}
	return b.String()
}
