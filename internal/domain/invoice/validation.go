package invoice

import (
	"fmt"
	"strings"
)

// Step selects the part of the invoice checked by ValidateStep.
type Step int

const (
	StepSender Step = iota + 1
	StepRecipient
	StepDetails
	StepItems
	StepComplete
)

// Result is the outcome of a validation run.
type Result struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

// Err returns nil for a valid result, otherwise a *ValidationError.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Messages: r.Errors}
}

// Validate runs every check and collects all messages.
func Validate(inv *Invoice) Result {
	return ValidateStep(StepComplete, inv)
}

// ValidateStep runs only the checks of one wizard step. StepComplete (and any
// unknown step) runs all of them.
func ValidateStep(step Step, inv *Invoice) Result {
	if inv == nil {
		inv = &Invoice{}
	}
	var errs []string
	switch step {
	case StepSender:
		errs = checkSender(inv.Sender)
	case StepRecipient:
		errs = checkRecipient(inv.Recipient)
	case StepDetails:
		errs = checkDetails(inv.Metadata)
	case StepItems:
		errs = checkItems(inv.Items)
	default:
		errs = append(errs, checkSender(inv.Sender)...)
		errs = append(errs, checkRecipient(inv.Recipient)...)
		errs = append(errs, checkDetails(inv.Metadata)...)
		errs = append(errs, checkItems(inv.Items)...)
	}
	if errs == nil {
		errs = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func checkSender(s Sender) []string {
	var errs []string
	if blank(s.Name) {
		errs = append(errs, "Firmenname ist erforderlich")
	}
	if blank(s.Street) {
		errs = append(errs, "Straße ist erforderlich")
	}
	if blank(s.Zip) {
		errs = append(errs, "Postleitzahl ist erforderlich")
	}
	if blank(s.City) {
		errs = append(errs, "Stadt ist erforderlich")
	}
	if blank(s.TaxID) && blank(s.UstID) {
		errs = append(errs, "Steuernummer oder USt-IdNr. ist erforderlich")
	}
	return errs
}

func checkRecipient(r Recipient) []string {
	var errs []string
	if blank(r.Name) {
		errs = append(errs, "Empfängername ist erforderlich")
	}
	if blank(r.Street) {
		errs = append(errs, "Empfängerstraße ist erforderlich")
	}
	if blank(r.Zip) {
		errs = append(errs, "Empfänger-PLZ ist erforderlich")
	}
	if blank(r.City) {
		errs = append(errs, "Empfängerstadt ist erforderlich")
	}
	return errs
}

func checkDetails(m Metadata) []string {
	var errs []string
	if blank(m.InvoiceNumber) {
		errs = append(errs, "Rechnungsnummer ist erforderlich")
	}
	if blank(m.Date) {
		errs = append(errs, "Rechnungsdatum ist erforderlich")
	}
	return errs
}

func checkItems(items []Item) []string {
	if len(items) == 0 {
		return []string{"Mindestens eine Position ist erforderlich"}
	}
	var errs []string
	for i, it := range items {
		pos := i + 1
		if blank(it.Description) {
			errs = append(errs, fmt.Sprintf("Position %d: Beschreibung fehlt", pos))
		}
		if !it.Quantity.IsPositive() {
			errs = append(errs, fmt.Sprintf("Position %d: Menge muss größer als 0 sein", pos))
		}
		if it.UnitPrice.IsNegative() {
			errs = append(errs, fmt.Sprintf("Position %d: Preis darf nicht negativ sein", pos))
		}
	}
	return errs
}
