// Package source reads the IHME GBD 2017 CSV exports into dataset.Sources.
//
// Columns are located by header name and extra columns are ignored, so the
// raw downloads can be used unmodified. Location and sex names are trimmed
// and NFC-normalised so that the same country spelled with composed and
// decomposed accents joins as one key.
package source
