package team

// Team is read-only reference data seeded by migration and denormalized
// into player listings.
type Team struct {
	ID      int64
	Name    string
	League  string
	Country string
	Founded int
}
