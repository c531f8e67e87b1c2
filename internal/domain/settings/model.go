package settings

import "errors"

// Defaults seeded on first run and substituted for absent stored values.
const (
	DefaultPremiumStaffPrice = 30.00
	DefaultAdminPixKey       = "seu-pix-aqui"
	DefaultAdminPhone        = "5500000000000"
)

// ErrNegativePrice is returned for a negative premium staff price.
var ErrNegativePrice = errors.New("premium staff price cannot be negative")

// Settings holds the process-wide scalar values of the academy.
// A nil AcademyLogo means no logo has been uploaded.
type Settings struct {
	AcademyLogo       *string `json:"academyLogo"`
	PremiumStaffPrice float64 `json:"premiumStaffPrice"`
	AdminPixKey       string  `json:"adminPixKey"`
	AdminPhone        string  `json:"adminPhone"`
}

// Defaults returns the first-run settings.
func Defaults() Settings {
	return Settings{
		PremiumStaffPrice: DefaultPremiumStaffPrice,
		AdminPixKey:       DefaultAdminPixKey,
		AdminPhone:        DefaultAdminPhone,
	}
}

// ValidatePremiumStaffPrice rejects negative prices.
func ValidatePremiumStaffPrice(price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	if s.AcademyLogo != nil {
		logo := *s.AcademyLogo
		s.AcademyLogo = &logo
	}
	return s
}
