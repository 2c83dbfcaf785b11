package entity

// Branding is the static letterhead of the business issuing the invoices.
// It comes from configuration, never from the operator's form.
type Branding struct {
	CompanyName string
	Slogan      string
	Address     string
	Phone       string
	Email       string
	Website     string // optional
}
