package risk

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// 引擎全程使用总体统计量(除以N而非N-1)

func mean(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

func popStd(xs []float64) float64 {
	return stat.PopStdDev(xs, nil)
}

func popVariance(xs []float64) float64 {
	return stat.PopVariance(xs, nil)
}

func popCovariance(xs, ys []float64) float64 {
	n := float64(len(xs))
	return stat.Covariance(xs, ys, nil) * (n - 1) / n
}

// quantileLinear 顺序统计量之间线性插值的分位数
// 即 h = p*(N-1)，在第floor(h)与floor(h)+1个顺序统计量之间插值
// gonum的stat.Quantile不提供这种插值方式，因此手工实现
func quantileLinear(xs []float64, p float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	h := p * float64(n-1)
	i := int(math.Floor(h))
	if i < 0 {
		return sorted[0]
	}
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}
