package deck

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultPlaceholderBody is the generic three-bullet body used whenever the
// remote summary cannot supply real bullets.
const DefaultPlaceholderBody = "A. Summary point 1 📝\nB. Summary point 2 ⚙️\nC. Summary point 3 🔄"

// DefaultTruncationMarker is appended to prompt content cut at PromptCharLimit.
const DefaultTruncationMarker = "\n\n[Content truncated due to length]"

// Policy holds every tunable constant of the deck pipeline.
type Policy struct {
	// HeadingDenylist lists "## " headings (compared lower-cased) that are
	// navigation or boilerplate and never become sections.
	HeadingDenylist []string
	// DropDeniedSectionBody also discards the body lines that follow a
	// denied heading, up to the next accepted heading.
	DropDeniedSectionBody bool

	SmallThreshold int // documents shorter than this get SmallCount slides
	LargeThreshold int // documents longer than this get LargeCount slides
	SmallCount     int
	MediumCount    int
	LargeCount     int

	PromptCharLimit  int
	TruncationMarker string
	PlaceholderBody  string

	// MaxDocumentBytes rejects oversized input at parse time. Zero disables.
	MaxDocumentBytes int
}

// DefaultPolicy returns the stock thresholds, counts and denylist.
func DefaultPolicy() Policy {
	return Policy{
		HeadingDenylist: []string{
			"menu",
			"using app router",
			"features available in /app",
			"using latest version",
			"15.2.4",
			"api reference",
			"file conventions",
		},
		DropDeniedSectionBody: true,
		SmallThreshold:        1000,
		LargeThreshold:        5000,
		SmallCount:            2,
		MediumCount:           5,
		LargeCount:            10,
		PromptCharLimit:       30000,
		TruncationMarker:      DefaultTruncationMarker,
		PlaceholderBody:       DefaultPlaceholderBody,
	}
}

// Denied reports whether a heading is on the denylist, ignoring case and
// surrounding whitespace.
func (p Policy) Denied(heading string) bool {
	h := strings.ToLower(strings.TrimSpace(heading))
	for _, d := range p.HeadingDenylist {
		if strings.ToLower(strings.TrimSpace(d)) == h {
			return true
		}
	}
	return false
}

func (p Policy) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.SmallThreshold, validation.Required, validation.Min(1)),
		validation.Field(&p.LargeThreshold, validation.Required, validation.Min(p.SmallThreshold)),
		validation.Field(&p.SmallCount, validation.Required, validation.Min(1)),
		validation.Field(&p.MediumCount, validation.Required, validation.Min(p.SmallCount)),
		validation.Field(&p.LargeCount, validation.Required, validation.Min(p.MediumCount)),
		validation.Field(&p.PromptCharLimit, validation.Required, validation.Min(1)),
		validation.Field(&p.PlaceholderBody, validation.Required, validation.By(placeholderShape)),
		validation.Field(&p.MaxDocumentBytes, validation.Min(0)),
	)
}

func placeholderShape(value any) error {
	body, _ := value.(string)
	if !IsBulletBody(body) {
		return errors.New("must be three lines labeled A., B. and C.")
	}
	return nil
}
