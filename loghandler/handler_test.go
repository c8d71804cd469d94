package loghandler

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var stamp = regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} `)

func TestHandle_TagAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo))

	log.Info("game closed", "tag", "engine", "game", "tavolo")

	line := buf.String()
	if !stamp.MatchString(line) {
		t.Fatalf("missing timestamp: %q", line)
	}
	if got := stamp.ReplaceAllString(line, ""); got != "[engine] game closed game=tavolo\n" {
		t.Errorf("unexpected line %q", got)
	}
}

func TestHandle_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo))
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record should be dropped, got %q", buf.String())
	}
}

func TestWithAttrs_BindsTag(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelDebug)).With("tag", "ws", "engine", "e1")

	log.Debug("dialing", "url", "ws://x")

	got := stamp.ReplaceAllString(buf.String(), "")
	if got != "[ws] dialing engine=e1 url=ws://x\n" {
		t.Errorf("unexpected line %q", got)
	}
}

func TestWithGroup_PrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo)).WithGroup("hand").With("id", "3")

	log.Info("closed", slog.Group("score", "us", 5))

	got := stamp.ReplaceAllString(buf.String(), "")
	if !strings.Contains(got, "hand.id=3") || !strings.Contains(got, "hand.score.us=5") {
		t.Errorf("unexpected line %q", got)
	}
}
