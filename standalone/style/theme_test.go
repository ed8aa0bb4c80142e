package style

import (
	"image/color"
	"testing"
)

func TestGetThemeByName(t *testing.T) {
	for _, name := range []string{"Default", "Dark", "Light", "Retro", "Super Famicom"} {
		t.Run(name, func(t *testing.T) {
			if got := GetThemeByName(name).Name; got != name {
				t.Errorf("GetThemeByName(%q).Name = %q", name, got)
			}
		})
	}

	for _, name := range []string{"", "Nonexistent", "dark"} {
		if got := GetThemeByName(name).Name; got != "Default" {
			t.Errorf("GetThemeByName(%q).Name = %q, want Default", name, got)
		}
	}
}

func TestIsValidThemeName(t *testing.T) {
	for _, name := range ThemeNames() {
		if !IsValidThemeName(name) {
			t.Errorf("IsValidThemeName(%q) = false", name)
		}
	}
	for _, name := range []string{"", "default", "DARK", "Pink"} {
		if IsValidThemeName(name) {
			t.Errorf("IsValidThemeName(%q) = true", name)
		}
	}
}

func TestApplyThemeByName(t *testing.T) {
	defer ApplyTheme(ThemeDefault)

	ApplyThemeByName("Retro")
	if CurrentThemeName != "Retro" {
		t.Errorf("CurrentThemeName = %q", CurrentThemeName)
	}
	if Background != ThemeRetro.Background || PadPressed != ThemeRetro.PadPressed {
		t.Error("Retro colors not applied")
	}

	ApplyThemeByName("bogus")
	if CurrentThemeName != "Default" || Danger != ThemeDefault.Danger {
		t.Error("unknown theme did not fall back to Default")
	}
}

func TestThemesAreOpaqueAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, th := range AvailableThemes {
		if seen[th.Name] {
			t.Errorf("duplicate theme %q", th.Name)
		}
		seen[th.Name] = true

		colors := map[string]color.NRGBA{
			"Background": th.Background, "Surface": th.Surface, "Primary": th.Primary,
			"Text": th.Text, "Border": th.Border, "Overlay": th.Overlay,
			"Danger": th.Danger, "PadFace": th.PadFace, "PadPressed": th.PadPressed,
		}
		for field, c := range colors {
			if c.A != 0xff {
				t.Errorf("%s.%s alpha = %#x, want 0xff", th.Name, field, c.A)
			}
		}
		if th.PadFace == th.PadPressed {
			t.Errorf("%s: pressed pad controls are indistinguishable", th.Name)
		}
	}
}

func TestWithAlpha(t *testing.T) {
	c := color.NRGBA{10, 20, 30, 0xff}
	tests := []struct {
		a    float64
		want uint8
	}{
		{-1, 0}, {0, 0}, {0.5, 127}, {1, 0xff}, {3, 0xff},
	}
	for _, tc := range tests {
		got := WithAlpha(c, tc.a)
		if got.A != tc.want || got.R != 10 {
			t.Errorf("WithAlpha(%v) = %+v, want alpha %d", tc.a, got, tc.want)
		}
	}
}
