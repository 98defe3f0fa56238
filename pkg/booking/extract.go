package booking

import (
	"regexp"
	"strings"
	"time"
)

// CreatedAtLayout is the layout used to stamp BookingDetails.CreatedAt.
const CreatedAtLayout = "1/2/2006, 3:04:05 PM"

// Markers the backend uses when it confirms a booking.
const (
	SuccessMarker  = "Success!"
	IDMarker       = "ID"
	idPrefix       = "ID: "
	namePrefix     = "for "
	nameSuffix     = " starting around"
	dateTimePrefix = "starting around "
)

// BookingDetails is the structured view of a booking confirmation reply.
// Nil fields were not found in the reply text.
type BookingDetails struct {
	ID             *string `json:"id" yaml:"id"`
	Name           *string `json:"name" yaml:"name"`
	DateTimeString *string `json:"dateTimeString" yaml:"date_time"`
	CreatedAt      *string `json:"createdAt" yaml:"created_at"`
}

// NOTE: detection and extraction are substring heuristics over free-form bot text
// and are brittle by construction (e.g. an unrelated "ID" next to "Success!" is a
// confirmation). A structured booking field in the backend reply would be preferable,
// but the client keeps these exact markers so its behavior matches the backend's wording.

// IsConfirmation reports whether a reply should be treated as a confirmed booking.
func IsConfirmation(reply string) bool {
	return strings.Contains(reply, SuccessMarker) && strings.Contains(reply, IDMarker)
}

var (
	idPattern       = regexp.MustCompile(regexp.QuoteMeta(idPrefix) + `(?P<id>[^\n]*)`)
	dateTimePattern = regexp.MustCompile(regexp.QuoteMeta(dateTimePrefix) + `(?P<datetime>[^\n]*)`)
)

// rule extracts a single field. A nil result means the field is absent.
type rule struct {
	name string
	scan func(text string) *string
}

var rules = []rule{
	{name: "id", scan: func(text string) *string { return captureLine(idPattern, "id", text) }},
	{name: "name", scan: scanName},
	{name: "dateTimeString", scan: func(text string) *string { return captureLine(dateTimePattern, "datetime", text) }},
}

// Extract scans a bot reply for booking fields and stamps the extraction time.
func Extract(text string) BookingDetails {
	return ExtractAt(text, time.Now())
}

// ExtractAt is Extract with an explicit extraction time.
func ExtractAt(text string, now time.Time) BookingDetails {
	createdAt := now.Local().Format(CreatedAtLayout)
	details := BookingDetails{CreatedAt: &createdAt}

	for _, r := range rules {
		value := runRule(r, text)
		switch r.name {
		case "id":
			details.ID = value
		case "name":
			details.Name = value
		case "dateTimeString":
			details.DateTimeString = value
		}
	}

	return details
}

// runRule isolates a rule so a failure leaves the other fields intact.
func runRule(r rule, text string) (value *string) {
	defer func() {
		if recover() != nil {
			value = nil
		}
	}()
	return r.scan(text)
}

// captureLine returns the named group of the leftmost match, trimmed.
func captureLine(re *regexp.Regexp, group, text string) *string {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	value := strings.TrimSpace(match[re.SubexpIndex(group)])
	return &value
}

// scanName returns the text between the first "for " and the first " starting around".
func scanName(text string) *string {
	start := strings.Index(text, namePrefix)
	end := strings.Index(text, nameSuffix)
	if start == -1 || end <= start {
		return nil
	}

	// The markers share a space, so "for starting around" yields end < start+len(prefix).
	lo, hi := start+len(namePrefix), end
	if hi < lo {
		lo, hi = hi, lo
	}
	value := strings.TrimSpace(text[lo:hi])
	return &value
}

// Row is a labelled booking field for display.
type Row struct {
	Label string
	Value string
}

// Rows returns the fields worth showing, in display order. Missing and empty
// fields are left out.
func (d BookingDetails) Rows() []Row {
	var rows []Row
	add := func(label string, field *string) {
		if v := Value(field); v != "" {
			rows = append(rows, Row{Label: label, Value: v})
		}
	}
	add("Booking ID:", d.ID)
	add("Name:", d.Name)
	add("Appointment:", d.DateTimeString)
	add("Confirmed At:", d.CreatedAt)
	return rows
}

// Value dereferences an optional field, returning "" when it is nil.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}
