/*
 * Copyright The OpenTelemetry Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

// Package telemetry provides the pipeline's structured logging and
// metrics setup, the ambient stack every otel-arrow collector component
// carries (*zap.Logger fields, as in the teacher's own extensions, e.g.
// memorylimiterextension.memoryLimiterExtension). The teacher never
// rotates its own log file — collector components log to whatever core
// the service supplies — so the rotating-file core here is a standalone
// addition for this ingestor's standalone binary, composed the way
// gopkg.in/natefinch/lumberjack.v2's own README documents: a
// lumberjack.Logger as the zapcore.WriteSyncer behind a JSON encoder.
package telemetry

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the rotating file core. An empty Path logs to
// stderr instead of a file.
type LogConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      zapcore.Level
}

// DefaultLogConfig returns the log rotation defaults: 100MB per file, 7
// backups, 28 days retention, info level.
func DefaultLogConfig() LogConfig {
	return LogConfig{MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 28, Level: zapcore.InfoLevel}
}

// NewLogger builds a *zap.Logger writing JSON lines at cfg.Level. When
// cfg.Path is set, output goes through a lumberjack.Logger so long-running
// ingestion processes don't grow an unbounded log file.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var ws zapcore.WriteSyncer
	if cfg.Path == "" {
		ws = zapcore.Lock(zapcore.AddSync(os.Stderr))
	} else {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), ws, cfg.Level)
	return zap.New(core, zap.AddCaller()), nil
}
