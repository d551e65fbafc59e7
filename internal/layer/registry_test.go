package layer

import (
	"testing"
	"time"

	"github.com/joeblew999/plat-mission/internal/geodoc"
)

func TestRegistryStartsAbsent(t *testing.T) {
	r := NewRegistry()
	for _, k := range Keys() {
		if r.Get(k) != nil {
			t.Errorf("%s present before any publish", k)
		}
	}
}

func TestRegistryPublishMergesAndKeepsOldSnapshots(t *testing.T) {
	r := NewRegistry()
	park := &geodoc.Document{Name: "park"}
	poles := &geodoc.Document{Name: "poles"}

	r.Publish(Park, park)
	before := r.Snapshot()
	r.Publish(Poles, poles)
	after := r.Snapshot()

	if before.Get(Poles) != nil {
		t.Error("earlier snapshot changed after a later publish")
	}
	if after.Get(Park) != park || after.Get(Poles) != poles {
		t.Errorf("merge lost an entry: %v", after)
	}
}

func TestRegistryRejectsNil(t *testing.T) {
	r := NewRegistry()
	r.Publish(Park, &geodoc.Document{})
	if r.Publish(Park, nil) {
		t.Fatal("Publish(nil) returned true")
	}
	if r.Get(Park) == nil {
		t.Error("entry reverted to absent")
	}
}

func TestRegistryCloseDropsLatePublishes(t *testing.T) {
	r := NewRegistry()
	ch := r.Subscribe()
	r.Close()

	if r.Publish(Park, &geodoc.Document{}) {
		t.Error("Publish after Close returned true")
	}
	if r.Get(Park) != nil {
		t.Error("registry written after Close")
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel still open after Close")
	}
	// must not panic
	r.Unsubscribe(ch)
	if _, ok := <-r.Subscribe(); ok {
		t.Error("Subscribe after Close returned an open channel")
	}
}

func TestRegistrySubscribeCoalesces(t *testing.T) {
	r := NewRegistry()
	ch := r.Subscribe()
	defer r.Unsubscribe(ch)

	for _, k := range Keys() {
		r.Publish(k, &geodoc.Document{Name: string(k)})
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal")
	}
	select {
	case <-ch:
		t.Fatal("expected a single pending signal")
	default:
	}
	if n := len(r.Snapshot()); n != 4 {
		t.Errorf("snapshot has %d entries, want 4", n)
	}
}

func TestParseKey(t *testing.T) {
	if k, ok := ParseKey("missionlines"); !ok || k != MissionLines {
		t.Errorf("ParseKey(missionlines) = %q, %v", k, ok)
	}
	if _, ok := ParseKey("roads"); ok {
		t.Error("ParseKey(roads) should fail")
	}
}

func TestSources(t *testing.T) {
	src := Sources("http://example.test/")
	if got := src[Poles]; got != "http://example.test/data/poles.geojson" {
		t.Errorf("poles source = %q", got)
	}
	if got := Sources("")[Park]; got != "/data/parkBoundary.geojson" {
		t.Errorf("relative park source = %q", got)
	}
}
