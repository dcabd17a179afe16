// Package fill writes field values into DOCX templates.
//
// Two independent engines are provided. The label-scoped injector finds known
// labels ("Customer Name:", "Date of Quotation:") in paragraph text and
// overwrites the highlighted placeholder runs belonging to each label. The
// bracket-tag populator replaces [Date], [Name], [Address] and [Number] tags,
// working on the raw part markup first so tags split across formatting
// boundaries are still found, with run-level and whole-paragraph passes behind
// it.
//
// Neither engine reports missing labels or tags as errors: templates omit
// optional fields routinely, and an absent label simply means nothing is
// written for it.
package fill

import (
	"strings"
	"time"
)

// FieldValues maps canonical label keys (lowercase, e.g. "customer name") to
// the literal strings to inject. It is supplied once per generation call and
// never mutated by the injector.
type FieldValues map[string]string

// Vocabulary is the fixed label vocabulary, in template scan order. Each
// label is matched case-insensitively with either a ':' or '-' terminator.
var Vocabulary = []string{
	"customer name",
	"location",
	"city",
	"state",
	"pincode",
	"pin code",
	"phone",
	"customer no",
	"mobile no",
	"mobile number",
	"product & service",
	"date of quotation",
	"validity of quotation",
	"quotation no",
}

// stripLabels are the labels whose own text is removed from the output so the
// rendered document shows only the value. These are the customer info block
// labels; document-metadata labels keep their captions.
var stripLabels = map[string]bool{
	"customer name": true,
	"location":      true,
	"city":          true,
	"state":         true,
	"pincode":       true,
	"pin code":      true,
	"phone":         true,
	"customer no":   true,
	"mobile no":     true,
	"mobile number": true,
}

// labelAliases maps vocabulary labels to the canonical FieldValues key that
// supplies their value. Templates use several spellings for the same field.
var labelAliases = map[string]string{
	"pin code":      "pincode",
	"customer no":   "phone",
	"mobile no":     "phone",
	"mobile number": "phone",
}

// lookupValue resolves the value for a vocabulary label, following aliases.
func lookupValue(fv FieldValues, label string) (string, bool) {
	if v, ok := fv[label]; ok {
		return v, true
	}
	if canon, ok := labelAliases[label]; ok {
		if v, ok := fv[canon]; ok {
			return v, true
		}
	}
	return "", false
}

// Quotation carries the fields of one quotation document. Dates are supplied
// as YYYY-MM-DD and rendered into the template as DD/MM/YYYY.
type Quotation struct {
	CustomerName    string
	Mobile          string
	Location        string
	City            string
	State           string
	Pincode         string
	Product         string
	QuotationNo     string
	DateOfQuotation string
	ValidityDate    string
}

// FieldValues maps the quotation onto the canonical label vocabulary.
func (q Quotation) FieldValues() FieldValues {
	return FieldValues{
		"customer name":         q.CustomerName,
		"location":              strings.TrimSpace(strings.ReplaceAll(q.Location, "\n", " ")),
		"city":                  q.City,
		"state":                 q.State,
		"pincode":               q.Pincode,
		"phone":                 q.Mobile,
		"product & service":     q.Product,
		"date of quotation":     RenderDate(q.DateOfQuotation),
		"validity of quotation": RenderDate(q.ValidityDate),
		"quotation no":          q.QuotationNo,
	}
}

// RenderDate converts a YYYY-MM-DD value to the DD/MM/YYYY form templates
// display. Anything unparseable passes through unchanged.
func RenderDate(val string) string {
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return val
	}
	return t.Format("02/01/2006")
}

// ValidityDate returns the quotation date plus the validity period, both as
// YYYY-MM-DD. An unparseable date yields an empty string.
func ValidityDate(dateOfQuotation string, days int) string {
	t, err := time.Parse("2006-01-02", dateOfQuotation)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}

// illegalFilenameChars cannot appear in filenames on common filesystems.
var illegalFilenameChars = []string{`\`, "/", ":", "*", "?", `"`, "<", ">", "|"}

// SafeFilename returns a filesystem-safe fragment of name: illegal
// characters become dashes and whitespace runs collapse to single spaces.
func SafeFilename(name string) string {
	for _, ch := range illegalFilenameChars {
		name = strings.ReplaceAll(name, ch, "-")
	}
	return strings.Join(strings.Fields(name), " ")
}
