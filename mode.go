package pagemark

// ProcessingMode selects how much HTML pre-processing happens before the
// content formatter is invoked. Exactly one mode is active per request and
// the mode is immutable for the lifetime of one fetch-and-format operation.
type ProcessingMode string

const (
	// ModeExtractBody narrows the page to its <body> content and strips
	// tags before formatting.
	ModeExtractBody ProcessingMode = "extract_body_strip_tags"

	// ModeFullPage strips tags from the whole document before formatting.
	ModeFullPage ProcessingMode = "full_page_strip_tags"

	// ModeRawHTML forwards the fetched HTML to the model unchanged; the
	// model performs extraction, boilerplate removal, and conversion.
	ModeRawHTML ProcessingMode = "full_page_ai_handles_html"

	// ModeExternalAPI bypasses local fetching and normalization entirely;
	// the raw URL is forwarded to an external endpoint that performs fetch
	// and format itself.
	ModeExternalAPI ProcessingMode = "external_api"
)

// Modes returns all valid processing modes.
func Modes() []ProcessingMode {
	return []ProcessingMode{ModeExtractBody, ModeFullPage, ModeRawHTML, ModeExternalAPI}
}

// ParseMode converts a string into a ProcessingMode.
// Returns EINVALID if the string is not a known mode.
func ParseMode(s string) (ProcessingMode, error) {
	m := ProcessingMode(s)
	if !m.Valid() {
		return "", Errorf(EINVALID, "invalid processing mode %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the enumerated processing modes.
func (m ProcessingMode) Valid() bool {
	switch m {
	case ModeExtractBody, ModeFullPage, ModeRawHTML, ModeExternalAPI:
		return true
	}
	return false
}

// UsesNormalizer reports whether the mode runs the local tag-stripping
// pipeline. ModeRawHTML passes HTML through untouched and ModeExternalAPI
// never reaches the normalizer.
func (m ProcessingMode) UsesNormalizer() bool {
	return m == ModeExtractBody || m == ModeFullPage
}

func (m ProcessingMode) String() string {
	return string(m)
}
