package fabrica

// Options holds workbook-level settings that affect the serialized
// package but not the cell data.
type Options struct {
	// Application is the generator name recorded in docProps/app.xml.
	Application string
	// Company is recorded alongside the application name when set.
	Company string
}

// defaultOptions returns the settings used by New.
func defaultOptions() Options {
	return Options{
		Application: "fabrica",
	}
}
