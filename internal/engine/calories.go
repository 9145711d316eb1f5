package engine

// AssumedBodyMassKg is a fixed approximation; estimates are not personalised.
const AssumedBodyMassKg = 70.0

// EstimateCalories returns MET x body mass x hours. The result is what gets
// stored on a workout at log time; stored values are never recomputed when
// the MET tables change.
func EstimateCalories(d WorkoutDraft) (float64, error) {
	met, err := EstimateMET(d)
	if err != nil {
		return 0, err
	}
	if met == 0 || !positive(d.DurationMin) {
		return 0, nil
	}
	return met * AssumedBodyMassKg * (d.DurationMin / 60), nil
}
