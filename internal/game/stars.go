package game

// MaxStars is the best possible rating for a level.
const MaxStars = 3

const (
	threeStarMaxErrors = 2
	twoStarMaxErrors   = 4
)

// CalculateStars rates a won attempt from its error count. The result is
// always in [1, MaxStars].
func CalculateStars(errors int) int {
	switch {
	case errors <= threeStarMaxErrors:
		return 3
	case errors <= twoStarMaxErrors:
		return 2
	default:
		return 1
	}
}
