package attendance

import (
	"context"
	"fmt"

	attendance "ems.com/ems/attendance/core"
	"ems.com/ems/attendance/model"
	"ems.com/ems/config"
	"ems.com/ems/core"
	"ems.com/ems/infrastructure/communication"
	"ems.com/ems/infrastructure/devops"
	"go.uber.org/zap"
)

// Runtime is everything a process needs to serve attendance operations.
type Runtime struct {
	Config  *config.Config
	Dm      *core.DatabaseManager
	Service *attendance.Service
	Slack   *communication.Slack
}

func (r *Runtime) Close() error {
	return r.Dm.Close()
}

// LoadConfig reads the configuration and, when an SSM parameter is
// configured, overlays the secrets it holds.
func LoadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.AWS.Parameter != "" {
		client, err := devops.NewSSMClient(ctx)
		if err != nil {
			return nil, err
		}
		params, err := devops.LoadParameters(ctx, client, cfg.AWS.Parameter)
		if err != nil {
			return nil, err
		}
		cfg.ApplyParameters(params)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Setup opens the database and wires the attendance service with its
// notification senders.
func Setup(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	shift := attendance.Shift{
		Start:     cfg.Attendance.ShiftStart,
		Finish:    cfg.Attendance.ShiftFinish,
		LateGrace: cfg.Attendance.LateGrace,
	}
	if err := shift.Validate(); err != nil {
		return nil, err
	}

	dm, err := core.New(core.Options{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.Database.DSN,
		MaxConnections: cfg.Database.MaxConnections,
		LogLevel:       core.ParseLogLevel(cfg.Database.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := core.AutoMigrate(dm.DB, &model.AttendanceRecord{}); err != nil {
			_ = dm.Close()
			return nil, err
		}
		log.Info("database migrated")
	}

	rt := &Runtime{Config: cfg, Dm: dm}

	var senders communication.Fanout
	if cfg.Notification.Enabled {
		if cfg.Notification.EmailFrom != "" {
			mailer, err := communication.NewMailer(ctx, cfg.Notification.EmailFrom)
			if err != nil {
				_ = dm.Close()
				return nil, err
			}
			senders = append(senders, mailer)
		}
		if cfg.Notification.SlackToken != "" {
			rt.Slack = communication.NewSlack(cfg.Notification.SlackToken, communication.SlackOption{
				InfoChannelID:  cfg.Notification.SlackInfoChannel,
				ErrorChannelID: cfg.Notification.SlackErrorChannel,
			})
			senders = append(senders, rt.Slack)
		}
		log.Info("notifications enabled", zap.Int("senders", len(senders)))
	}

	var notifier communication.Sender
	if len(senders) > 0 {
		notifier = senders
	}

	rt.Service = attendance.NewService(dm.DB, core.NewEmployeeDirectory(dm.DB), notifier, log, attendance.Options{
		Location:    loc,
		Shift:       shift,
		MaxAttempts: cfg.Attendance.MaxAttempts,
	})
	return rt, nil
}
