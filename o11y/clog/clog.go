// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clog provides context aware logging.
// It stores a logger in the context, so library code can report
// diagnostics without holding a logger of its own.
//
// Fatal conditions are logged with the label "ERROR" and recoverable
// ones with "warn". Both carry the source location of the caller.
package clog

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type contextKeyType int

var contextKey contextKeyType

// New creates a new logger writing to w.
func New(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:        log.InfoLevel,
		ReportCaller: true,
	})
	logger.SetStyles(styles())
	return logger
}

func styles() *log.Styles {
	st := log.DefaultStyles()
	st.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("ERROR").Bold(true).Foreground(lipgloss.Color("204"))
	st.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("warn").Foreground(lipgloss.Color("192"))
	return st
}

var defaultLogger = New(os.Stderr)

// NewContext sets the given logger to the context.
func NewContext(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, contextKey, logger)
}

// FromContext returns a logger in the context, or the logger writing
// to stderr if it's not set.
func FromContext(ctx context.Context) *log.Logger {
	logger, ok := ctx.Value(contextKey).(*log.Logger)
	if !ok || logger == nil {
		return defaultLogger
	}
	return logger
}

// Debugf logs at debug log level in the manner of fmt.Printf.
func Debugf(ctx context.Context, format string, args ...any) {
	logger := FromContext(ctx)
	logger.Helper()
	logger.Debug(fmt.Sprintf(format, args...))
}

// Infof logs at info log level in the manner of fmt.Printf.
func Infof(ctx context.Context, format string, args ...any) {
	logger := FromContext(ctx)
	logger.Helper()
	logger.Info(fmt.Sprintf(format, args...))
}

// Warningf logs at warning log level in the manner of fmt.Printf.
func Warningf(ctx context.Context, format string, args ...any) {
	logger := FromContext(ctx)
	logger.Helper()
	logger.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs at error log level in the manner of fmt.Printf.
func Errorf(ctx context.Context, format string, args ...any) {
	logger := FromContext(ctx)
	logger.Helper()
	logger.Error(fmt.Sprintf(format, args...))
}

// V reports whether debug logging is enabled for the context.
func V(ctx context.Context) bool {
	return FromContext(ctx).GetLevel() <= log.DebugLevel
}
