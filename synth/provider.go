package synth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/text/language"
)

// ErrUnsupportedLocale is returned by NewProvider for a locale the fake-data
// source has no data for. Callers are expected to treat it as a
// configuration error rather than falling back to a default locale.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// DefaultLocale is the locale records are generated with unless one is
// requested explicitly.
const DefaultLocale = "en-GB"

var supported = []language.Tag{
	language.BritishEnglish, // the default, must stay first
	language.AmericanEnglish,
	language.English,
}

var localeMatcher = language.NewMatcher(supported)

// Provider yields one fake full name or full address per call. Successive
// calls are independent samples, repeats are allowed.
type Provider interface {
	FullName() string
	FullAddress() string
}

type fakeitProvider struct {
	faker *gofakeit.Faker
	uk    bool
}

// NewProvider returns a Provider for the given BCP-47 locale tag, seeded
// with seed (0 seeds from the clock). Tags that do not match a supported
// locale fail with ErrUnsupportedLocale.
func NewProvider(locale string, seed uint64) (Provider, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, ErrUnsupportedLocale)
	}
	_, n, conf := localeMatcher.Match(tag)
	if conf < language.High {
		return nil, fmt.Errorf("locale %q: %w", locale, ErrUnsupportedLocale)
	}
	return &fakeitProvider{
		faker: gofakeit.New(seed),
		uk:    supported[n] == language.BritishEnglish,
	}, nil
}

func (p *fakeitProvider) FullName() string {
	return p.faker.Name()
}

func (p *fakeitProvider) FullAddress() string {
	if p.uk {
		// The underlying data set has no UK street or city tables; the
		// postcode is what gives the address its UK shape.
		return fmt.Sprintf("%s, %s, %s", p.faker.Street(), p.faker.City(), ukPostcode(p.faker))
	}
	a := p.faker.Address()
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.Zip)
}

func ukPostcode(f *gofakeit.Faker) string {
	return strings.ToUpper(f.Regex(`[A-Z]{1,2}[0-9]{1,2} [0-9][A-Z]{2}`))
}
