// =============================================================================
// Shop Analytics - XML Writer Module
// =============================================================================
//
// This module renders a snapshot of the three reports as an XML document, for
// systems that import the figures instead of reading the text reports.
//
// XML STRUCTURE:
//
//   <analytics run="..." source="datos.csv" currency="€">
//     <revenue>
//       <distinctProducts>1</distinctProducts>
//       <unitsSold>5</unitsSold>
//       <revenueExTax>50.00</revenueExTax>
//       <revenueIncTax>60.50</revenueIncTax>
//     </revenue>
//     <stock>
//       <product n="1">                  <!-- ordered by product name -->
//         <name>Mouse</name>
//         <category>Perifèrics</category>
//         <quantity>9</quantity>
//       </product>
//     </stock>
//     <top>
//       <product n="1">                  <!-- best seller first -->
//         <name>Mouse</name>
//         <category>Perifèrics</category>
//         <unitsSold>5</unitsSold>
//         <revenueExTax>50.00</revenueExTax>
//         <revenueIncTax>60.50</revenueIncTax>
//       </product>
//     </top>
//     <warnings>                         <!-- omitted when empty -->
//       <warning report="revenue" row="3" kind="InvalidNumeric">...</warning>
//     </warnings>
//   </analytics>
//
// Amounts carry two decimals, rounded the same way as the text reports.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/ginjaninja78/shop-analytics/internal/analytics"
	"github.com/ginjaninja78/shop-analytics/internal/report"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// CurrencySymbol is recorded on the root element. Amounts themselves are
	// plain numbers.
	CurrencySymbol string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		CurrencySymbol:        "€",
	}
}

// =============================================================================
// DOCUMENT STRUCTURE
// =============================================================================

type document struct {
	XMLName  xml.Name      `xml:"analytics"`
	Run      string        `xml:"run,attr,omitempty"`
	Source   string        `xml:"source,attr,omitempty"`
	Currency string        `xml:"currency,attr,omitempty"`
	Revenue  revenue       `xml:"revenue"`
	Stock    []stockItem   `xml:"stock>product"`
	Top      []topItem     `xml:"top>product"`
	Warnings *warningsList `xml:"warnings,omitempty"`
}

type revenue struct {
	DistinctProducts int    `xml:"distinctProducts"`
	UnitsSold        int    `xml:"unitsSold"`
	RevenueExTax     string `xml:"revenueExTax"`
	RevenueIncTax    string `xml:"revenueIncTax"`
}

type stockItem struct {
	N        int    `xml:"n,attr"`
	Name     string `xml:"name"`
	Category string `xml:"category"`
	Quantity int    `xml:"quantity"`
}

type topItem struct {
	N             int    `xml:"n,attr"`
	Name          string `xml:"name"`
	Category      string `xml:"category"`
	UnitsSold     int    `xml:"unitsSold"`
	RevenueExTax  string `xml:"revenueExTax"`
	RevenueIncTax string `xml:"revenueIncTax"`
}

type warningsList struct {
	Items []warningItem `xml:"warning"`
}

type warningItem struct {
	Report  string `xml:"report,attr"`
	Row     int    `xml:"row,attr"`
	Kind    string `xml:"kind,attr"`
	Product string `xml:"product,attr,omitempty"`
	Field   string `xml:"field,attr,omitempty"`
	Value   string `xml:"value,attr,omitempty"`
	Message string `xml:",chardata"`
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from the snapshot with default options.
func Generate(snapshot *analytics.Snapshot) ([]byte, error) {
	return GenerateWithOptions(snapshot, DefaultGenerateOptions())
}

// GenerateWithOptions creates an XML document with custom options.
//
// PARAMETERS:
//   - snapshot: The results of the three reports.
//   - options: The generation options.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if marshalling fails.
func GenerateWithOptions(snapshot *analytics.Snapshot, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	xmlBytes, err := xml.MarshalIndent(buildDocument(snapshot, options), "", options.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	buffer.Write(xmlBytes)
	buffer.WriteByte('\n')

	return buffer.Bytes(), nil
}

// buildDocument maps the snapshot onto the document structure.
func buildDocument(snapshot *analytics.Snapshot, options GenerateOptions) *document {
	totals := snapshot.Revenue.Totals

	doc := &document{
		Run:      snapshot.RunID,
		Source:   snapshot.SourceFile,
		Currency: options.CurrencySymbol,
		Revenue: revenue{
			DistinctProducts: totals.DistinctProductCount,
			UnitsSold:        totals.TotalUnitsSold,
			RevenueExTax:     amount(totals.TotalRevenueExTax),
			RevenueIncTax:    amount(totals.TotalRevenueIncTax),
		},
	}

	for i, p := range snapshot.Stock.Products {
		doc.Stock = append(doc.Stock, stockItem{
			N:        i + 1,
			Name:     p.Product,
			Category: p.Category,
			Quantity: p.TotalStock,
		})
	}

	for i, p := range snapshot.Top.Products {
		doc.Top = append(doc.Top, topItem{
			N:             i + 1,
			Name:          p.Product,
			Category:      p.Category,
			UnitsSold:     p.TotalQuantity,
			RevenueExTax:  amount(p.TotalRevenueExTax),
			RevenueIncTax: amount(p.TotalRevenueIncTax),
		})
	}

	if warnings := snapshot.Warnings(); len(warnings) > 0 {
		doc.Warnings = &warningsList{}
		for _, w := range warnings {
			doc.Warnings.Items = append(doc.Warnings.Items, warningItem{
				Report:  w.Report,
				Row:     w.Row,
				Kind:    string(w.Kind),
				Product: w.Product,
				Field:   w.Field,
				Value:   w.Value,
				Message: w.Message,
			})
		}
	}

	return doc
}

func amount(v float64) string {
	return report.Money(v).StringFixed(2)
}
