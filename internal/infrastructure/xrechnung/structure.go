package xrechnung

// StructureResult reports whether a document is well-formed XRechnung XML.
type StructureResult struct {
	Valid  bool     `json:"isValid"`
	Syntax Syntax   `json:"syntax,omitempty"`
	Errors []string `json:"errors"`
}

// ValidateStructure checks well-formedness and the namespace-qualified root
// element (rsm:CrossIndustryInvoice or ubl:Invoice). It does not run schema or
// Schematron validation.
func ValidateStructure(data []byte) StructureResult {
	doc, err := readDocument(data)
	if err != nil {
		return StructureResult{Errors: []string{"XML Parser Error: " + err.Error()}}
	}
	syntax, ok := DetectSyntax(doc.Root())
	if !ok {
		return StructureResult{Errors: []string{"Kein gültiges CrossIndustryInvoice oder UBL Invoice Root-Element"}}
	}
	return StructureResult{Valid: true, Syntax: syntax, Errors: []string{}}
}
