package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"ems.com/ems/attendance"
	"ems.com/ems/infrastructure/filesystem"
	"ems.com/ems/infrastructure/logging"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func newReporter(ctx context.Context) (*Reporter, func(), error) {
	cfg, err := attendance.LoadConfig(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	rt, err := attendance.Setup(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	r := &Reporter{svc: rt.Service, prefix: cfg.Report.Prefix, log: log, now: time.Now}
	if cfg.Report.Bucket != "" {
		bucket, err := filesystem.NewBucket(ctx, cfg.Report.Bucket)
		if err != nil {
			_ = rt.Close()
			return nil, nil, err
		}
		r.bucket = bucket
	}
	if rt.Slack != nil {
		r.slack = rt.Slack
	}

	cleanup := func() {
		_ = log.Sync()
		if err := rt.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}
	return r, cleanup, nil
}

func HandleRequest(ctx context.Context, event ReportEvent) (*ReportResult, error) {
	eventJson, _ := json.Marshal(event)
	fmt.Printf("[INFO] Event: %s\n", string(eventJson))

	r, cleanup, err := newReporter(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return r.Run(ctx, event)
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	date := flag.String("date", "", "day to report, yyyy-MM-dd (default yesterday)")
	dryRun := flag.Bool("dry-run", true, "build the report without uploading")
	force := flag.Bool("force", false, "overwrite an archived report")
	flag.Parse()

	result, err := HandleRequest(context.Background(), ReportEvent{Date: *date, DryRun: *dryRun, Force: *force})
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	resJson, _ := json.MarshalIndent(result, "", "  ")
	fmt.Printf("[SUCCESS] Results:\n%s\n", string(resJson))
}
