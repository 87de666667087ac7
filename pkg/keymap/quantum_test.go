package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupQuantumSetting(t *testing.T) {
	s, ok := LookupQuantumSetting("tapping.term")
	require.True(t, ok)
	assert.Equal(t, 7, s.QSID)
	assert.Equal(t, 2, s.Width)
	assert.Equal(t, 200, s.Default)

	_, ok = LookupQuantumSetting("nope")
	assert.False(t, ok)

	seen := map[int]bool{}
	for _, s := range QuantumSettings {
		assert.False(t, seen[s.QSID], "duplicate qsid %d", s.QSID)
		seen[s.QSID] = true
	}
}

func TestQuantumSetting_Mask(t *testing.T) {
	s, _ := LookupQuantumSetting("AUTO_SHIFT_TIMEOUT")
	assert.Equal(t, 0xff, s.Mask(0x1ff))
	s, _ = LookupQuantumSetting("oneshot.timeout")
	assert.Equal(t, 0x2345, s.Mask(0x12345))
}

func TestIsDefine(t *testing.T) {
	assert.True(t, IsDefine("AUTO_SHIFT_TIMEOUT"))
	assert.False(t, IsDefine("tapping.term"))
}

func TestPaths(t *testing.T) {
	obj := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{"c": 1.0},
			"d": true,
		},
		"x": 1.0,
	}

	v, ok := lookupPath(obj, "a.b.c")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = lookupPath(obj, "x.y")
	assert.False(t, ok)

	setPath(obj, "n.m", 5)
	v, ok = lookupPath(obj, "n.m")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	deletePath(obj, "a.b.c")
	assert.Equal(t, map[string]interface{}{"d": true}, obj["a"])

	deletePath(obj, "n.m")
	_, ok = obj["n"]
	assert.False(t, ok)

	deletePath(obj, "missing.path")
	assert.Len(t, obj, 2)
}

func TestLoadQuantumSettings(t *testing.T) {
	configH := "#define AUTO_SHIFT_TIMEOUT 150\n#define VIAL_DEFAULT_TAPPING (1 << 2)\n// #define MOUSEKEY_MOVE_DELTA 8\n"
	keyboard := map[string]interface{}{
		"tapping": map[string]interface{}{"term": 220.0},
		"combo":   map[string]interface{}{"term": "fast"},
	}

	values, opaque := loadQuantumSettings(configH, keyboard)
	assert.Equal(t, map[string]int{"AUTO_SHIFT_TIMEOUT": 150, "tapping.term": 220}, values)
	assert.Equal(t, map[string]bool{"VIAL_DEFAULT_TAPPING": true, "combo.term": true}, opaque)
}

func TestApplyQuantumSettings(t *testing.T) {
	configH := "#pragma once\n#define AUTO_SHIFT_TIMEOUT 150\n#define VIAL_DEFAULT_TAPPING (1 << 2)\n#define MOUSEKEY_MOVE_DELTA 8\n"
	keyboard := map[string]interface{}{
		"tapping": map[string]interface{}{"term": 220.0},
		"combo":   map[string]interface{}{"term": "fast"},
	}
	values := map[string]int{"AUTO_SHIFT_TIMEOUT": 100, "oneshot.timeout": 3000}
	opaque := map[string]bool{"VIAL_DEFAULT_TAPPING": true, "combo.term": true}

	outH, outKB := applyQuantumSettings(configH, keyboard, values, opaque)
	assert.Equal(t, "#pragma once\n#define AUTO_SHIFT_TIMEOUT 100\n#define VIAL_DEFAULT_TAPPING (1 << 2)\n", outH)
	assert.Equal(t, map[string]interface{}{
		"combo":   map[string]interface{}{"term": "fast"},
		"oneshot": map[string]interface{}{"timeout": 3000},
	}, outKB)

	// input is not modified
	assert.Contains(t, keyboard, "tapping")
}
