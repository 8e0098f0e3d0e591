package utils

import "math/rand"

// NewRand создаёт детерминированный генератор. Вся случайность симуляции
// идёт через один экземпляр, поэтому одинаковый seed даёт одинаковый прогон.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Choice возвращает случайный элемент; для пустого среза - нулевое значение и false.
func Choice[T any](rng *rand.Rand, xs []T) (T, bool) {
	var zero T
	if len(xs) == 0 {
		return zero, false
	}
	return xs[rng.Intn(len(xs))], true
}

// Roll бросает значение из дискретного набора (атаки, защиты, лечение).
// Пустой набор даёт 0.
func Roll(rng *rand.Rand, values []int) int {
	v, _ := Choice(rng, values)
	return v
}

// Chance возвращает true с вероятностью p.
func Chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// RandRange - целое из [lo, hi] включительно.
func RandRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return rng.Intn(hi-lo+1) + lo
}
