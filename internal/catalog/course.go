// Package catalog provides the read-only course catalog: the course
// records loaded from persisted storage plus the derived lookups the
// query rules consult. The catalog is never mutated at steady state;
// edits happen out of band and land through a reload.
package catalog

import (
	"strings"
	"time"
)

// NotAvailable is the rendering for any missing course field.
const NotAvailable = "No disponible"

// Course is a single course record as persisted in the catalog JSON.
// Field names mirror the stored document (Spanish keys).
type Course struct {
	ID           string   `json:"id"`
	Title        string   `json:"titulo"`
	Description  string   `json:"descripcion"`
	Localities   []string `json:"localidades"`
	FormLink     string   `json:"formulario"`
	StartDate    string   `json:"fecha_inicio"`
	Status       string   `json:"estado"`
	Requirements string   `json:"requisitos"`
}

// HasConfirmedVenue reports whether the course has at least one locality.
func (c *Course) HasConfirmedVenue() bool {
	return len(c.Localities) > 0
}

// StatusText returns the course status with underscores rendered as
// spaces ("inscripcion_abierta" → "inscripcion abierta"), or
// NotAvailable when the field is missing.
func (c *Course) StatusText() string {
	if c.Status == "" {
		return NotAvailable
	}
	return strings.ReplaceAll(c.Status, "_", " ")
}

// FormLinkText returns the enrollment form URL, or NotAvailable when
// the field is missing.
func (c *Course) FormLinkText() string {
	if c.FormLink == "" {
		return NotAvailable
	}
	return c.FormLink
}

// longMonths are the Spanish month names used by LongDate.
var longMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// LongDate renders an ISO 8601 date as "10 de julio".
// Unparseable or missing dates render as NotAvailable.
func LongDate(iso string) string {
	if iso == "" {
		return NotAvailable
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		// Some records carry a full timestamp.
		t, err = time.Parse(time.RFC3339, iso)
		if err != nil {
			return NotAvailable
		}
	}
	return strings.Join([]string{t.Format("2"), "de", longMonths[t.Month()-1]}, " ")
}

// LongStartDate returns the course start date in long form.
func (c *Course) LongStartDate() string {
	return LongDate(c.StartDate)
}
