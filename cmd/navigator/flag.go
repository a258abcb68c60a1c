package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"navigator/internal/geom"
)

type logLevelFlag struct {
	value slog.Level
}

func (l *logLevelFlag) String() string {
	return l.value.String()
}

func (l *logLevelFlag) Set(value string) error {
	m := map[string]slog.Level{"DEBUG": slog.LevelDebug, "INFO": slog.LevelInfo, "WARN": slog.LevelWarn, "ERROR": slog.LevelError}
	v, ok := m[strings.ToUpper(value)]
	if !ok {
		return fmt.Errorf("unknown log level")
	}
	l.value = v
	return nil
}

// vecFlag parses "x,y,z".
type vecFlag struct {
	value geom.Vec3
}

func (v *vecFlag) String() string {
	return fmt.Sprintf("%g,%g,%g", v.value.X, v.value.Y, v.value.Z)
}

func (v *vecFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z")
	}
	var xyz [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return err
		}
		xyz[i] = float32(f)
	}
	v.value = geom.V(xyz[0], xyz[1], xyz[2])
	return nil
}
