// Package fixtures provides rate tables shaped like the published
// TAXRATES_ZIP5 exports for tests.
package fixtures

import (
	"bytes"
	"compress/gzip"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Header is the column row of a published rate table.
const Header = "State,ZipCode,TaxRegionName,EstimatedCombinedRate,StateRate,EstimatedCountyRate,EstimatedCityRate,EstimatedSpecialRate,RiskLevel"

// Row is one line of a rate table. Only the fields the generator reads are
// configurable; the component rates are filled with zeros.
type Row struct {
	State string
	Zip   string
	City  string
	Rate  string
}

// RateTable renders rows as CSV with the published header. Cities
// containing commas or quotes are quoted.
func RateTable(rows ...Row) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(r.State)
		b.WriteString(",")
		b.WriteString(r.Zip)
		b.WriteString(",")
		b.WriteString(quoteField(r.City))
		b.WriteString(",")
		b.WriteString(r.Rate)
		b.WriteString(",0,0,0,0,1\n")
	}
	return b.String()
}

func quoteField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// California is the two-row table used across tests: one taxable zip code
// and one zero-rate row that must be dropped.
func California() string {
	return RateTable(
		Row{State: "CA", Zip: "90001", City: "Los Angeles", Rate: "0.095"},
		Row{State: "CA", Zip: "90002", City: "O'Fallon", Rate: "0"},
	)
}

// Gzip compresses content with gzip.
func Gzip(content string) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(content)); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Zstd compresses content with zstd.
func Zstd(content string) []byte {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		panic(err)
	}
	defer enc.Close()
	return enc.EncodeAll([]byte(content), nil)
}
