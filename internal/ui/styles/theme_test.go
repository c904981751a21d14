// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"Dark", ModeDark, false},
		{" light ", ModeLight, false},
		{"solarized", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewTheme_ForcedModes(t *testing.T) {
	dark := NewTheme(ModeDark)
	if !dark.IsDark || dark.GlamourStyle() != "dark" {
		t.Errorf("dark theme: IsDark=%v glamour=%q", dark.IsDark, dark.GlamourStyle())
	}

	light := NewTheme(ModeLight)
	if light.IsDark || light.GlamourStyle() != "light" {
		t.Errorf("light theme: IsDark=%v glamour=%q", light.IsDark, light.GlamourStyle())
	}
}

func TestTheme_Toggle(t *testing.T) {
	theme := NewTheme(ModeDark)
	theme.SetSize(80, 24)

	toggled := theme.Toggle()
	if toggled.IsDark {
		t.Error("Toggle from dark should be light")
	}
	if toggled.Width != 80 || toggled.Height != 24 {
		t.Errorf("Toggle lost size: %dx%d", toggled.Width, toggled.Height)
	}
	if back := toggled.Toggle(); !back.IsDark {
		t.Error("second Toggle should return to dark")
	}
}

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme(ModeDark)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestRenderHelpers_IncludeIndicators(t *testing.T) {
	cases := map[string]string{
		RenderSuccess("done"):    StatusIndicators.Success,
		RenderError("failed"):    StatusIndicators.Error,
		RenderWarning("careful"): StatusIndicators.Warning,
		RenderInfo("note"):       StatusIndicators.Info,
	}
	for out, indicator := range cases {
		if !strings.Contains(out, indicator) {
			t.Errorf("%q missing indicator %q", out, indicator)
		}
	}
}
