package dataprocessing

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"salespulse/internal/config"
)

// Supported source encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows-1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatProfile is one (delimiter, decimal convention, encoding) combination
// tried against a source.
type FormatProfile struct {
	Name             string
	Delimiter        rune
	DecimalSeparator rune
	Encoding         string
}

// DefaultProfiles returns the built-in profiles in priority order.
func DefaultProfiles() []FormatProfile {
	return []FormatProfile{
		{Name: "comma-utf8", Delimiter: ',', DecimalSeparator: '.', Encoding: EncodingUTF8},
		{Name: "semicolon-latin1", Delimiter: ';', DecimalSeparator: ',', Encoding: EncodingLatin1},
	}
}

// ProfilesFromConfig appends the configured profiles to the defaults.
func ProfilesFromConfig(cfg config.IngestConfig) ([]FormatProfile, error) {
	profiles := DefaultProfiles()
	for i, pc := range cfg.Profiles {
		p, err := profileFromConfig(pc)
		if err != nil {
			return nil, fmt.Errorf("ingest profile %d: %w", i, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func profileFromConfig(pc config.ProfileConfig) (FormatProfile, error) {
	delim := []rune(pc.Delimiter)
	if len(delim) != 1 || delim[0] == '"' || delim[0] == '\r' || delim[0] == '\n' || delim[0] == utf8.RuneError {
		return FormatProfile{}, fmt.Errorf("delimiter %q must be a single character other than a quote or newline", pc.Delimiter)
	}

	decimalSep := '.'
	if pc.DecimalSeparator != "" {
		sep := []rune(pc.DecimalSeparator)
		if len(sep) != 1 || (sep[0] != '.' && sep[0] != ',') {
			return FormatProfile{}, fmt.Errorf("decimal separator %q must be '.' or ','", pc.DecimalSeparator)
		}
		decimalSep = sep[0]
	}

	encoding := strings.ToLower(strings.TrimSpace(pc.Encoding))
	switch encoding {
	case "", "utf8", EncodingUTF8:
		encoding = EncodingUTF8
	case "latin-1", "iso-8859-1", EncodingLatin1:
		encoding = EncodingLatin1
	case "cp1252", EncodingWindows1252:
		encoding = EncodingWindows1252
	default:
		return FormatProfile{}, fmt.Errorf("unsupported encoding %q", pc.Encoding)
	}

	name := pc.Name
	if name == "" {
		name = fmt.Sprintf("custom-%c-%s", delim[0], encoding)
	}

	return FormatProfile{
		Name:             name,
		Delimiter:        delim[0],
		DecimalSeparator: decimalSep,
		Encoding:         encoding,
	}, nil
}

// decode converts raw source bytes to UTF-8 text according to the profile encoding.
func (p FormatProfile) decode(raw []byte) (string, error) {
	switch p.Encoding {
	case EncodingUTF8:
		data := bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("source is not valid UTF-8")
		}
		return string(data), nil
	case EncodingLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("latin1 decode: %w", err)
		}
		return string(out), nil
	case EncodingWindows1252:
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("windows-1252 decode: %w", err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("unsupported encoding %q", p.Encoding)
}
