package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRenderComposesAllLayers(t *testing.T) {
	out, err := render(context.Background(), &Options{DataDir: "../../data"}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	var m renderedMap
	if err := yaml.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	want := []string{"park", "missionLines", "missionPoints", "poles"}
	if len(m.Overlays) != len(want) {
		t.Fatalf("got %d overlays", len(m.Overlays))
	}
	for i, o := range m.Overlays {
		if string(o.Key) != want[i] {
			t.Errorf("overlay %d = %s, want %s", i, o.Key, want[i])
		}
	}
	if len(m.Fit) != 4 {
		t.Errorf("fit = %v", m.Fit)
	}
	if len(m.Failures) != 0 {
		t.Errorf("failures = %v", m.Failures)
	}
	pole := m.Overlays[3].Popups[0]
	if !strings.HasPrefix(pole, "<strong>Pole</strong><br/><strong>id:</strong> P-01<br/>") {
		t.Errorf("pole popup = %q", pole)
	}
}

func TestRenderReportsPartialFailure(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile("../../data/parkBoundary.geojson")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "parkBoundary.geojson"), src, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := render(context.Background(), &Options{DataDir: dir}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	var m renderedMap
	if err := yaml.Unmarshal(out, &m); err != nil {
		t.Fatal(err)
	}
	if len(m.Overlays) != 1 || len(m.Failures) != 3 {
		t.Errorf("overlays = %d, failures = %v", len(m.Overlays), m.Failures)
	}
}

func TestRenderFailsWithoutData(t *testing.T) {
	if _, err := render(context.Background(), &Options{DataDir: t.TempDir()}, quietLogger()); err == nil {
		t.Error("expected an error with no layers")
	}
}
