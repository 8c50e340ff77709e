package breadcrumbs

type Icon string

const (
	IconChevronDown Icon = "chevron-down"
	IconChevronUp   Icon = "chevron-up"
)

// Disclosure is the expand/collapse state of a list of alternate trails.
// The zero value is collapsed.
type Disclosure struct {
	Expanded bool `json:"expanded"`
}

func (d *Disclosure) Toggle() {
	d.Expanded = !d.Expanded
}

// Collapse closes the disclosure, e.g. after a click outside of it.
func (d *Disclosure) Collapse() {
	d.Expanded = false
}

// Toggled returns the state a toggle would produce without changing d.
func (d Disclosure) Toggled() Disclosure {
	return Disclosure{Expanded: !d.Expanded}
}

func (d Disclosure) Indicator() Icon {
	if d.Expanded {
		return IconChevronUp
	}
	return IconChevronDown
}
