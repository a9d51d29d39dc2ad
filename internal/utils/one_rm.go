package utils

// CalculateEpley1RM estimates a one-rep max from a single set.
func CalculateEpley1RM(weight, reps float64) float64 {
	if reps <= 0 || weight <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}

	return weight * (1 + reps/30)
}
