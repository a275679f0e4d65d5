package sampling

// Source is the subset of a random number generator needed for sampling.
type Source interface {
	Intn(n int) int
}

// Uniform returns an element of choices chosen uniformly at random,
// or false if choices is empty.
func Uniform(choices []int, rng Source) (int, bool) {
	if len(choices) == 0 {
		return 0, false
	}

	return choices[rng.Intn(len(choices))], true
}
