package linesensor

import (
	"errors"
	"testing"
)

func single(idx int, value uint16) LightMap {
	var m LightMap
	m[idx] = value
	return m
}

func TestEstimateNoLine(t *testing.T) {
	if pos, ok := Estimate(LightMap{}); ok {
		t.Fatalf("All-zero map should mean no line, got %v", pos)
	}
	m := LightMap{999, 999, 999, 999, 999, 999, 999, 999}
	if pos, ok := Estimate(m); ok {
		t.Fatalf("Readings below threshold should mean no line, got %v", pos)
	}
}

func TestEstimateSingleSensor(t *testing.T) {
	expected := []float64{1.0, 0.75, 0.5, 0.0, 0.0, -0.5, -0.75, -1.0}
	for idx, exp := range expected {
		pos, ok := Estimate(single(idx, DefaultThreshold))
		if !ok {
			t.Errorf("Sensor %d at threshold should detect the line", idx)
			continue
		}
		if pos != exp {
			t.Errorf("Sensor %d: expected %v, got %v", idx, exp, pos)
		}
	}
}

func TestLineUnderRightmostSensorIsToTheRight(t *testing.T) {
	// Index 0 is the robot's right.
	pos, ok := Estimate(single(0, 3000))
	if !ok || pos <= 0 {
		t.Fatalf("A line under the rightmost sensor should give a positive position, got %v %v", pos, ok)
	}
	pos, ok = Estimate(single(NumSensors-1, 3000))
	if !ok || pos >= 0 {
		t.Fatalf("A line under the leftmost sensor should give a negative position, got %v %v", pos, ok)
	}
}

func TestEstimateStrongestWins(t *testing.T) {
	m := LightMap{1200, 1300, 100, 100, 100, 100, 2500, 1100}
	pos, ok := Estimate(m)
	if !ok || pos != -0.75 {
		t.Fatalf("Expected -0.75, got %v (ok=%v)", pos, ok)
	}
}

func TestEstimateTieLowestIndexWins(t *testing.T) {
	m := LightMap{0, 0, 2000, 0, 0, 0, 0, 2000}
	if idx := StrongestSensor(m); idx != 2 {
		t.Fatalf("Expected index 2 to win the tie, got %d", idx)
	}
	pos, _ := Estimate(m)
	if pos != 0.5 {
		t.Fatalf("Expected 0.5, got %v", pos)
	}
}

func TestEstimateWithThreshold(t *testing.T) {
	m := single(7, 400)
	if _, ok := Estimate(m); ok {
		t.Fatal("400 is below the default threshold")
	}
	pos, ok := EstimateWithThreshold(m, 300)
	if !ok || pos != -1.0 {
		t.Fatalf("Expected -1 with a lower threshold, got %v (ok=%v)", pos, ok)
	}
}

func TestProcessCalibration(t *testing.T) {
	samples := []LightMap{
		{100, 200, 0, 0, 0, 0, 0, 4095},
		{150, 250, 0, 0, 0, 0, 0, 4095},
	}
	c, err := ProcessCalibration(samples)
	if err != nil {
		t.Fatal(err)
	}
	if c.Min[0] != 100 || c.Min[1] != 200 {
		t.Errorf("Bad min: %v", c.Min)
	}
	if c.Max[0] != 150 || c.Max[1] != 250 {
		t.Errorf("Bad max: %v", c.Max)
	}
	if c.Threshold[0] != 125 || c.Threshold[1] != 225 || c.Threshold[7] != 4095 {
		t.Errorf("Bad thresholds: %v", c.Threshold)
	}
}

func TestProcessCalibrationEmpty(t *testing.T) {
	if _, err := ProcessCalibration(nil); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("Expected ErrNoSamples, got %v", err)
	}
}
