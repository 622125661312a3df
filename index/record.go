package index

// Record is a single (name, address) pair, either freshly generated or read
// back from the table. Records have no identity beyond their row position.
type Record struct {
	Name    string
	Address string
}
