package forms

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/catalog-web/models"
)

// DateTimeLayout is the value format of an HTML datetime-local input.
const DateTimeLayout = "2006-01-02T15:04"

// Bounds of the decimal(10,2) price column.
const (
	PriceMaxDigits   = 10
	PriceMaxDecimals = 2
)

var priceLimit = decimal.New(1, PriceMaxDigits-PriceMaxDecimals)

// ProductForm keeps price and timestamps as raw strings so an invalid
// submission can be re-rendered exactly as typed.
type ProductForm struct {
	Name        string `form:"name" validate:"required,max=250"`
	Slug        string `form:"slug" validate:"required,max=250,slug"`
	Description string `form:"description" validate:"required,max=500"`
	Price       string `form:"price" validate:"omitempty,numeric"`
	CreatedAt   string `form:"created_at" validate:"omitempty,datetime=2006-01-02T15:04"`
	ModifiedAt  string `form:"modified_at" validate:"omitempty,datetime=2006-01-02T15:04"`
}

func DecodeProduct(values url.Values) ProductForm {
	return ProductForm{
		Name:        strings.TrimSpace(values.Get("name")),
		Slug:        strings.TrimSpace(values.Get("slug")),
		Description: strings.TrimSpace(values.Get("description")),
		Price:       strings.TrimSpace(values.Get("price")),
		CreatedAt:   strings.TrimSpace(values.Get("created_at")),
		ModifiedAt:  strings.TrimSpace(values.Get("modified_at")),
	}
}

func (f ProductForm) Validate() Errors {
	errs := check(f)
	if _, ok := errs["price"]; !ok && f.Price != "" {
		if msg := checkPrice(f.Price); msg != "" {
			errs.Add("price", msg)
		}
	}
	return errs
}

// checkPrice returns the error message for a price the column cannot hold
// exactly, or "" when it fits.
func checkPrice(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "Enter a number."
	}
	if d.Abs().GreaterThanOrEqual(priceLimit) {
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", PriceMaxDigits-PriceMaxDecimals)
	}
	if !d.Equal(d.Truncate(PriceMaxDecimals)) {
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", PriceMaxDecimals)
	}
	return ""
}

// Product builds the record to insert. A blank price is zero and blank
// timestamps take now. Call only after Validate reported no errors.
func (f ProductForm) Product(now time.Time) (*models.Product, error) {
	price := decimal.Zero
	if f.Price != "" {
		p, err := decimal.NewFromString(f.Price)
		if err != nil {
			return nil, err
		}
		price = p
	}
	createdAt, err := parseTimeOr(f.CreatedAt, now)
	if err != nil {
		return nil, err
	}
	modifiedAt, err := parseTimeOr(f.ModifiedAt, now)
	if err != nil {
		return nil, err
	}
	return &models.Product{
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
		Price:       price,
		CreatedAt:   createdAt,
		ModifiedAt:  modifiedAt,
	}, nil
}

func parseTimeOr(v string, fallback time.Time) (time.Time, error) {
	if v == "" {
		return fallback, nil
	}
	return time.ParseInLocation(DateTimeLayout, v, fallback.Location())
}
