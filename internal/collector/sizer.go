package collector

// ComputeCount returns how many leading points fit in one transport unit.
//
// Sizes are accumulated left to right until the running sum exceeds bound;
// the point that overflowed is left for the next batch. The result is never
// less than one, so a single oversized point is still sent on its own, and
// never more than len(sizes). An empty input returns zero.
func ComputeCount(sizes []int, bound int) int {
	if len(sizes) == 0 {
		return 0
	}

	count, sum := 0, 0
	for count < len(sizes) && sum <= bound {
		sum += sizes[count]
		count++
	}
	if sum > bound {
		count--
	}

	return min(max(count, 1), len(sizes))
}
