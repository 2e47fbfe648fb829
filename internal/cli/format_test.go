package cli

import (
	"testing"

	"github.com/julianstephens/steplog/internal/models"
)

func TestFormatSteps(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{10000, "10,000"},
		{123456, "123,456"},
	}
	for _, tt := range tests {
		if got := FormatSteps(tt.in); got != tt.want {
			t.Errorf("FormatSteps(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		name         string
		value, scale int
		width        int
		want         string
	}{
		{"empty", 0, 100, 4, "░░░░"},
		{"half", 50, 100, 4, "██░░"},
		{"full", 100, 100, 4, "████"},
		{"over", 250, 100, 4, "████"},
		{"tiny value still shows", 1, 100, 4, "█░░░"},
		{"zero scale", 10, 0, 3, "░░░"},
		{"zero width", 10, 10, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bar(tt.value, tt.scale, tt.width); got != tt.want {
				t.Errorf("Bar(%d, %d, %d) = %q, want %q", tt.value, tt.scale, tt.width, got, tt.want)
			}
		})
	}
}

func TestChartScale(t *testing.T) {
	days := []models.DayRecord{
		{Steps: 3000, Goal: 10000},
		{Steps: 14000, Goal: 10000},
	}
	if got := ChartScale(days); got != 14000 {
		t.Errorf("ChartScale() = %d, want 14000", got)
	}
	if got := ChartScale(nil); got != 0 {
		t.Errorf("ChartScale(nil) = %d, want 0", got)
	}
}

func TestStreakDots(t *testing.T) {
	tests := []struct {
		streak int
		want   string
	}{
		{0, "○○○○○○○"},
		{3, "●●●○○○○"},
		{7, "●●●●●●●"},
		{12, "●●●●●●●"},
		{-1, "○○○○○○○"},
	}
	for _, tt := range tests {
		if got := StreakDots(tt.streak); got != tt.want {
			t.Errorf("StreakDots(%d) = %q, want %q", tt.streak, got, tt.want)
		}
	}
}

func TestPlantArtCoversEveryStage(t *testing.T) {
	stages := []models.PlantStage{
		models.StageEmpty, models.StageSprout, models.StageStem,
		models.StageFuller, models.StageBud, models.StageBloom,
	}
	for _, s := range stages {
		if len(PlantArt(s)) == 0 {
			t.Errorf("PlantArt(%q) is empty", s)
		}
	}
	if got := PlantArt("weird"); len(got) != len(PlantArt(models.StageEmpty)) {
		t.Errorf("unknown stage should fall back to empty art")
	}
}
