package rules

// DefaultDefinition returns the built-in CUP production rules.
func DefaultDefinition() Definition {
	return Definition{
		Bindings: []string{"Cased", "Limp"},
		Colours:  []string{"Mono", "Colour"},
		Routes:   []string{"Standard", "Premium"},
		TrimSizes: []string{
			"140x216",
			"152x229",
			"156x234",
			"170x244",
			"189x246",
			"178x254",
			"203x254",
			"216x280",
		},
		Papers: []PaperRule{
			{Name: "CUP MunkenPure 80 gsm", Colours: []string{"Mono"}, Routes: []string{"Standard"}},
			{Name: "Navigator 80 gsm", Colours: []string{"Mono"}, Routes: []string{"Standard"}},
			{Name: "Clairjet 90 gsm", Colours: []string{"Colour"}, Routes: []string{"Standard"}},
			{Name: "Magno Matt 90 gsm", Colours: []string{"Mono", "Colour"}, Routes: []string{"Premium"}},
		},
	}
}

var defaultCatalog = MustNew(DefaultDefinition())

// Default returns the process-wide built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}
