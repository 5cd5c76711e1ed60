//go:build !opticsdebug

package optics

import (
	"strings"
	"testing"
)

func TestRayOutOfRangeLogsError(t *testing.T) {
	buf := captureLogs(t)
	r := NewRays(1)
	if got := r.Ray(3); got != (Ray{}) {
		t.Errorf("Ray(3) = %+v, want zero", got)
	}
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("no error logged:\n%s", buf.String())
	}
}

func TestProfileOfOutOfRangeLogsError(t *testing.T) {
	tests := []struct {
		name  string
		mats  MaterialTable
		owner int32
	}{
		{"owner past the end", MaterialTable{Owners: []int32{NoMaterial}}, 1},
		{"negative owner", MaterialTable{Owners: []int32{NoMaterial}}, -2},
		{"profile past the end", MaterialTable{Owners: []int32{4}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			if got := tt.mats.ProfileOf(tt.owner); got != NoMaterial {
				t.Errorf("ProfileOf(%d) = %d, want NoMaterial", tt.owner, got)
			}
			if !strings.Contains(buf.String(), "level=ERROR") {
				t.Errorf("no error logged:\n%s", buf.String())
			}
		})
	}
}
