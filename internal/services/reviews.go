package services

// ClampRating bounds a submitted review rating. Verified buyers may rate
// 1 to 5; unverified reviewers are floored at 4 so drive-by one-star spam
// cannot sink a product they never bought.
func ClampRating(rating int, verifiedBuyer bool) int {
	if verifiedBuyer {
		if rating < 1 {
			return 5
		}
		if rating > 5 {
			return 5
		}
		return rating
	}

	if rating < 4 {
		return 4
	}
	if rating > 5 {
		return 5
	}
	return rating
}
