// Package layer owns the keyed layer registry and the loaders that fill it.
package layer

import "strings"

// Key identifies one of the fixed mission layers.
type Key string

const (
	Park          Key = "park"
	Poles         Key = "poles"
	MissionLines  Key = "missionLines"
	MissionPoints Key = "missionPoints"
)

// Keys returns every layer key in the order the loads are issued.
func Keys() []Key {
	return []Key{Park, Poles, MissionLines, MissionPoints}
}

// ParseKey matches s against the known keys, ignoring case.
func ParseKey(s string) (Key, bool) {
	for _, k := range Keys() {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

// DefaultPaths are the endpoints the mission data is served from.
var DefaultPaths = map[Key]string{
	Park:          "/data/parkBoundary.geojson",
	Poles:         "/data/poles.geojson",
	MissionLines:  "/data/mission_lines.geojson",
	MissionPoints: "/data/mission_points.geojson",
}

// Sources resolves DefaultPaths against base. An empty base leaves the paths
// relative, which DirFetcher understands.
func Sources(base string) map[Key]string {
	base = strings.TrimRight(base, "/")
	out := make(map[Key]string, len(DefaultPaths))
	for k, p := range DefaultPaths {
		out[k] = base + p
	}
	return out
}
