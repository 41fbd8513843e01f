package nn

// EarlyStop records the validation accuracy of a finished epoch and reports
// whether training has plateaued: once the history holds Patience entries, the
// mean successive difference over the last Patience entries is compared to the
// stability threshold. There is no rollback to a best epoch.
func (n *Network) EarlyStop(accuracy float64) bool {
	n.performance = append(n.performance, accuracy)
	return plateaued(n.performance, n.hyperParams.EarlyStopping)
}

func plateaued(history []float64, criterion EarlyStopping) bool {
	patience := criterion.Patience
	if patience <= 0 || len(history) < patience {
		return false
	}

	recent := history[len(history)-patience:]

	sumDiff := 0.0
	for i := 1; i < len(recent); i++ {
		sumDiff += recent[i] - recent[i-1]
	}
	meanDiff := sumDiff / float64(patience)

	return meanDiff <= criterion.StabilityThreshold
}
