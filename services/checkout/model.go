package checkout

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// State of a checkout. Review collects shipping info, payment selects and
// validates a payment instrument, confirmed is terminal.
type State string

const (
	StateReview    State = "review"
	StatePayment   State = "payment"
	StateConfirmed State = "confirmed"
)

const (
	MethodCashOnDelivery = "cod"
	MethodCard           = "card"
	MethodPayPal         = "paypal"
	MethodApplePay       = "apple"
)

func isSupportedMethod(method string) bool {
	switch method {
	case MethodCashOnDelivery, MethodCard, MethodPayPal, MethodApplePay:
		return true
	}
	return false
}

// MethodLabel is the human-readable payment method name recorded on the
// order.
func MethodLabel(method string) string {
	if method == MethodCashOnDelivery {
		return "Cash on Delivery"
	}
	return method
}

// CheckoutContext tracks one checkout from review to confirmation.
type CheckoutContext struct {
	UID              string
	State            State
	CreatedAt        time.Time
	LastModified     *time.Time
	TotalCents       int64  // cart total at checkout start, in catalog currency
	Currency         string // display currency the shopper is charged in
	CouponCode       string
	DiscountFraction string // decimal fraction in [0,1), empty when no coupon applied
	PaymentMethod    string
	PaymentInFlight  bool
	FinalTotalCents  int64 // set on confirmation, in display currency
	OrderUID         string
}

func (cc CheckoutContext) Discount() decimal.Decimal {
	if cc.DiscountFraction == "" {
		return decimal.Zero
	}
	fraction, err := decimal.NewFromString(cc.DiscountFraction)
	if err != nil {
		return decimal.Zero
	}
	return fraction
}

// FieldErrors maps a form field name onto its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) IsEmpty() bool {
	return len(fe) == 0
}

// VisibleFor filters the error set down to fields the shopper has already
// interacted with. A submit attempt surfaces everything.
func (fe FieldErrors) VisibleFor(touched []string) FieldErrors {
	visible := FieldErrors{}
	for _, field := range touched {
		if msg, found := fe[field]; found {
			visible[field] = msg
		}
	}
	return visible
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ShippingInfo is the fixed record collected during the review step.
type ShippingInfo struct {
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Email     string `form:"email" json:"email"`
	Address   string `form:"address" json:"address"`
	City      string `form:"city" json:"city"`
	ZipCode   string `form:"zipCode" json:"zipCode"`
	Country   string `form:"country" json:"country"`
}

func (si ShippingInfo) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(si.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(si.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	if strings.TrimSpace(si.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(si.Email) {
		errs["email"] = "Enter a valid email"
	}
	if strings.TrimSpace(si.Address) == "" {
		errs["address"] = "Address is required"
	}
	if strings.TrimSpace(si.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(si.ZipCode) == "" {
		errs["zipCode"] = "ZIP code is required"
	}
	if strings.TrimSpace(si.Country) == "" {
		errs["country"] = "Country is required"
	}

	return errs
}

// AsMap flattens the shipping record for the order snapshot.
func (si ShippingInfo) AsMap() map[string]string {
	return map[string]string{
		"firstName": si.FirstName,
		"lastName":  si.LastName,
		"email":     si.Email,
		"address":   si.Address,
		"city":      si.City,
		"zipCode":   si.ZipCode,
		"country":   si.Country,
	}
}

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
)

// CardDetails is only required when the payment method is card.
type CardDetails struct {
	CardNumber string `form:"cardNumber" json:"cardNumber"`
	CardName   string `form:"cardName" json:"cardName"`
	ExpiryDate string `form:"expiryDate" json:"expiryDate"`
	CVV        string `form:"cvv" json:"cvv"`
}

func (cd CardDetails) Validate() FieldErrors {
	errs := FieldErrors{}

	number := strings.ReplaceAll(cd.CardNumber, " ", "")
	if strings.TrimSpace(cd.CardNumber) == "" {
		errs["cardNumber"] = "Card number is required"
	} else if !cardNumberPattern.MatchString(number) {
		errs["cardNumber"] = "Card number must be 16 digits"
	}

	if strings.TrimSpace(cd.CardName) == "" {
		errs["cardName"] = "Cardholder name is required"
	}

	if strings.TrimSpace(cd.ExpiryDate) == "" {
		errs["expiryDate"] = "Expiry date is required"
	} else if !expiryPattern.MatchString(cd.ExpiryDate) {
		errs["expiryDate"] = "Format: MM/YY"
	}

	if strings.TrimSpace(cd.CVV) == "" {
		errs["cvv"] = "CVV is required"
	} else if !cvvPattern.MatchString(cd.CVV) {
		errs["cvv"] = "CVV must be 3 digits"
	}

	return errs
}
