package version

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Заполняются через -ldflags "-X frontline-server/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки - число дней от этой даты.
var buildEpoch = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

var errNoBuildDate = errors.New("BuildDate is empty")

// VersionInfo - метаданные сборки, отдаются на /version.
type VersionInfo struct {
	BuildID    int    `json:"buildId"`
	BuildDate  string `json:"buildDate"`
	Commit     string `json:"commit"`
	Branch     string `json:"branch"`
	CI         string `json:"ci"`
	GoVersion  string `json:"goVersion"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// buildID - дни от эпохи до date. Обе даты в UTC.
func buildID(date string) (int, error) {
	if date == "" {
		return 0, errNoBuildDate
	}
	day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}
	if day.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before %s", date, buildEpoch.Format(time.DateOnly))
	}
	return int(day.Sub(buildEpoch) / (24 * time.Hour)), nil
}

// vcsRevision - коммит из debug.BuildInfo, если -ldflags его не задали.
func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// Info собирает метаданные текущего бинарника.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
		GoVersion: runtime.Version(),
	}
	if info.Commit == "" {
		info.Commit = vcsRevision()
	}

	id, err := buildID(BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID, info.Calculated = id, true
	return info
}

// String - строка для логов при старте.
func String() string {
	info := Info()
	build := "unknown (" + info.Error + ")"
	if info.Calculated {
		build = fmt.Sprintf("%d (%s)", info.BuildID, info.BuildDate)
	}
	return fmt.Sprintf("frontline build %s commit[%s] branch[%s] ci[%s] %s",
		build,
		orDefault(info.Commit, "unknown"),
		orDefault(info.Branch, "unknown"),
		orDefault(info.CI, "local"),
		info.GoVersion,
	)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
