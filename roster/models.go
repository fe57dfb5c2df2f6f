package roster

// Person is a read-only roster entry sourced from the directory service.
type Person struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// FullName returns the "first last" display form used for matching.
func (p Person) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
