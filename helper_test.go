package payments

// m is a helper for tests to create money from a decimal literal.
func m(s string) Money {
	v, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return v
}
