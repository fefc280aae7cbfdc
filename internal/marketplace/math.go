package marketplace

// Checked integer arithmetic. Amounts govern real value transfer, so wrapping
// on overflow is never acceptable.

func add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrAmountOverflow
	}

	return sum, nil
}

func mul(a, b uint64) (uint64, error) {
	if a == 0 {
		return 0, nil
	}

	product := a * b
	if product/a != b {
		return 0, ErrAmountOverflow
	}

	return product, nil
}

// mulDiv computes a*b/c with truncating integer division.
func mulDiv(a, b, c uint64) (uint64, error) {
	product, err := mul(a, b)
	if err != nil {
		return 0, err
	}

	return product / c, nil
}
