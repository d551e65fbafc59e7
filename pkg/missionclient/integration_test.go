//go:build integration

// Integration test against a running server: mission
//
// Run: go test -tags=integration ./pkg/missionclient/
package missionclient_test

import (
	"context"
	"os"
	"testing"

	"github.com/joeblew999/plat-mission/pkg/missionclient"
)

func baseURL() string {
	if u := os.Getenv("MISSION_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8086"
}

func TestLiveLayersLoaded(t *testing.T) {
	layers, err := missionclient.New(baseURL()).Layers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range layers {
		if !l.Loaded {
			t.Errorf("%s not loaded: %s", l.Key, l.Error)
		}
	}
}

func TestLivePoleGeoJSON(t *testing.T) {
	raw, err := missionclient.New(baseURL()).Layer(context.Background(), "poles")
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) == 0 {
		t.Fatal("empty layer")
	}
}
