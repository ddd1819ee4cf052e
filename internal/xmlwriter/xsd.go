package xmlwriter

import (
	"bytes"
	"fmt"
	"strings"
)

// =============================================================================
// XSD GENERATION
// =============================================================================

// schemaNode describes one element of the POSLog subset the writer emits.
type schemaNode struct {
	Name     string
	Type     string // XSD simple type for leaves
	Repeated bool
	Children []schemaNode
}

// poslogSchema mirrors buildDocument. Keep both in step.
var poslogSchema = schemaNode{
	Name: "POSLog",
	Children: []schemaNode{{
		Name: "Transaction",
		Children: []schemaNode{
			{
				Name: "TransactionHeader",
				Children: []schemaNode{
					{Name: "RetailStoreID", Type: "xs:string"},
					{Name: "WorkstationID", Type: "xs:string"},
					{Name: "OperatorID", Type: "xs:string"},
					{Name: "TransactionSequenceID", Type: "xs:string"},
					{Name: "BusinessDayDate", Type: "xs:date"},
					{Name: "BeginDateTime", Type: "xs:dateTime"},
				},
			},
			{
				Name: "RetailTransaction",
				Children: []schemaNode{{
					Name:     "LineItem",
					Repeated: true,
					Children: []schemaNode{{
						Name: "Sale",
						Children: []schemaNode{
							{Name: "ItemID", Type: "xs:string"},
							{Name: "Description", Type: "xs:string"},
							{Name: "Quantity", Type: "xs:positiveInteger"},
							{Name: "RegularSalesUnitPrice", Type: "xs:decimal"},
							{Name: "ExtendedAmount", Type: "xs:decimal"},
						},
					}},
				}},
			},
			{
				Name: "Payment",
				Children: []schemaNode{{
					Name: "Tender",
					Children: []schemaNode{
						{Name: "TenderType", Type: "xs:string"},
						{Name: "Amount", Type: "xs:decimal"},
					},
				}},
			},
			{
				Name: "TransactionTrailer",
				Children: []schemaNode{{
					Name: "Total",
					Children: []schemaNode{
						{Name: "Amount", Type: "xs:decimal"},
					},
				}},
			},
		},
	}},
}

// GenerateXSD creates an XSD describing the documents Generate produces.
//
// RETURNS:
//   - The XSD document as a byte slice.
//
// Every parent is an xs:sequence, so the XSD also pins element order.
func GenerateXSD() []byte {
	var buffer bytes.Buffer

	buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
`)
	writeXSDElement(&buffer, poslogSchema, 1)
	buffer.WriteString("</xs:schema>\n")

	return buffer.Bytes()
}

// writeXSDElement writes an XSD element definition.
func writeXSDElement(buffer *bytes.Buffer, node schemaNode, indentLevel int) {
	indent := strings.Repeat("  ", indentLevel)

	occurs := ""
	if node.Repeated {
		occurs = ` minOccurs="0" maxOccurs="unbounded"`
	}

	if len(node.Children) == 0 {
		fmt.Fprintf(buffer, "%s<xs:element name=\"%s\" type=\"%s\"%s/>\n",
			indent, node.Name, node.Type, occurs)
		return
	}

	fmt.Fprintf(buffer, "%s<xs:element name=\"%s\"%s>\n", indent, node.Name, occurs)
	fmt.Fprintf(buffer, "%s  <xs:complexType>\n", indent)
	fmt.Fprintf(buffer, "%s    <xs:sequence>\n", indent)

	for _, child := range node.Children {
		writeXSDElement(buffer, child, indentLevel+3)
	}

	fmt.Fprintf(buffer, "%s    </xs:sequence>\n", indent)
	fmt.Fprintf(buffer, "%s  </xs:complexType>\n", indent)
	fmt.Fprintf(buffer, "%s</xs:element>\n", indent)
}
