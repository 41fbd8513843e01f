package nn

// fill sets every element of v to value
func fill(v []float64, value float64) {
	for i := range v {
		v[i] = value
	}
}

// allOnes reports whether every element of v is exactly 1
func allOnes(v []float64) bool {
	for _, x := range v {
		if x != 1 {
			return false
		}
	}
	return true
}

// OneHot returns a vector of the given size with a 1 at index
func OneHot(index, size int) []float64 {
	v := make([]float64, size)
	if index >= 0 && index < size {
		v[index] = 1
	}
	return v
}

// ArgMax returns the index of the largest value of v, -1 when v is empty
func ArgMax(v []float64) int {
	return argMax(v)
}
