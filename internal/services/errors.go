package services

// NotFoundError reports a referenced coupon, order or inventory unit that
// does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError reports malformed or policy-violating input, such as
// exhausted stock or a coupon outside its validity window.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
