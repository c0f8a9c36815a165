package smc

// keepNewest bounds a chronologically ascending slice to its newest n
// elements, dropping the oldest first. The retention policy for every
// annotation list goes through here so the contract stays in one place.
func keepNewest[T any](items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
