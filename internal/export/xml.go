// =============================================================================
// CSV Sales Watcher - XML Writer
// =============================================================================
//
// XML STRUCTURE:
//
//   <salesReports>                                  <!-- Root element -->
//     <report kind="daily-totals" title="...">      <!-- One element per table -->
//       <row n="1">                                 <!-- Row element with index -->
//         <Day>2025-07-05</Day>                     <!-- One child per column -->
//         <TotalSales>300</TotalSales>
//       </row>
//     </report>
//   </salesReports>
//
// Column headers become element names with spaces and punctuation removed.
//
// =============================================================================

package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
)

// XMLOptions controls XML generation.
type XMLOptions struct {
	// Indent is the string used for one level of indentation.
	Indent string

	// IncludeXMLDeclaration writes the <?xml ...?> header.
	IncludeXMLDeclaration bool

	XMLVersion string
	Encoding   string

	RootElement   string
	ReportElement string
	RowElement    string

	// RowIndexAttribute is the attribute holding the 1-based row index.
	RowIndexAttribute string
}

// DefaultXMLOptions returns the options used by WriteXML.
func DefaultXMLOptions() XMLOptions {
	return XMLOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		RootElement:           "salesReports",
		ReportElement:         "report",
		RowElement:            "row",
		RowIndexAttribute:     "n",
	}
}

// WriteXML writes the tables as an XML document with the default options.
func WriteXML(w io.Writer, tables ...report.Table) error {
	return WriteXMLWithOptions(w, DefaultXMLOptions(), tables...)
}

// WriteXMLWithOptions writes the tables as an XML document.
func WriteXMLWithOptions(w io.Writer, options XMLOptions, tables ...report.Table) error {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		fmt.Fprintf(&buffer, "<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding)
	}

	root := XMLElement{XMLName: xml.Name{Local: options.RootElement}}
	for _, t := range tables {
		root.Children = append(root.Children, buildReportElement(t, options))
	}

	writeElement(&buffer, root, options.Indent, 0)

	if _, err := w.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

// XMLElement is a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildReportElement constructs the element of one table.
func buildReportElement(t report.Table, options XMLOptions) XMLElement {
	element := XMLElement{
		XMLName: xml.Name{Local: options.ReportElement},
		Attributes: []xml.Attr{
			{Name: xml.Name{Local: "kind"}, Value: string(t.Kind)},
			{Name: xml.Name{Local: "title"}, Value: t.Title},
		},
	}

	tags := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		tags[i] = xmlTag(c, i)
	}

	for i, r := range t.Rows {
		row := XMLElement{
			XMLName: xml.Name{Local: options.RowElement},
			Attributes: []xml.Attr{
				{Name: xml.Name{Local: options.RowIndexAttribute}, Value: strconv.Itoa(i + 1)},
			},
		}
		cells := append([]string{r.Day.String()}, r.Values...)
		for j, v := range cells {
			if j >= len(tags) {
				break
			}
			row.Children = append(row.Children, createSimpleElement(tags[j], v))
		}
		element.Children = append(element.Children, row)
	}

	return element
}

// createSimpleElement creates an element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// xmlTag turns a column header into an element name: "Total sales" becomes
// "TotalSales". Headers without usable characters fall back to ColumnN.
func xmlTag(header string, index int) string {
	var b strings.Builder
	upper := true
	for _, r := range header {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if b.Len() == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return fmt.Sprintf("Column%d", index+1)
	}
	return b.String()
}

// writeElement writes an element and its children with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	buffer.WriteString(strings.Repeat(indent, level))

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)
	for _, attr := range element.Attributes {
		fmt.Fprintf(buffer, " %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		buffer.WriteString(strings.Repeat(indent, level))
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
