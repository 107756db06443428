package evaluation

// relevantSet builds a membership set from the ground-truth ids,
// collapsing duplicates.
func relevantSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// RecallAtK calculates Recall at K: the fraction of relevant ids that
// appear anywhere in the top-K retrieved list. Rank positions within
// the top-K do not matter.
func RecallAtK(relevant map[string]bool, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}

	if k > len(retrieved) {
		k = len(retrieved)
	}

	found := make(map[string]bool, len(relevant))
	for i := 0; i < k; i++ {
		if relevant[retrieved[i]] {
			found[retrieved[i]] = true
		}
	}

	return float64(len(found)) / float64(len(relevant))
}

// AveragePrecisionAtK calculates Average Precision at K. Precision is
// sampled at each position holding a relevant id; the sum is divided by
// the total number of relevant ids, which keeps the result in [0, 1]
// even when fewer than K results come back. A relevant id counts only
// at its first occurrence, so duplicated results cannot push the score
// past 1.
func AveragePrecisionAtK(relevant map[string]bool, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}

	if k > len(retrieved) {
		k = len(retrieved)
	}

	hits := 0
	sumPrecision := 0.0
	seen := make(map[string]bool, len(relevant))

	for i := 0; i < k; i++ {
		id := retrieved[i]
		if relevant[id] && !seen[id] {
			seen[id] = true
			hits++
			sumPrecision += float64(hits) / float64(i+1)
		}
	}

	if hits == 0 {
		return 0
	}

	return sumPrecision / float64(len(relevant))
}
