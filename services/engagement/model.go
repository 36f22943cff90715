package engagement

// NewsletterSignup is the single-field subscription form from the footer.
type NewsletterSignup struct {
	Email string `form:"email"`
}

// ContactMessage is the contact-page form. Subject is the one optional
// field.
type ContactMessage struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Subject string `form:"subject"`
	Message string `form:"message"`
}

// Confirmation carries the toast text the storefront shows on success.
type Confirmation struct {
	Message string `json:"message"`
}
