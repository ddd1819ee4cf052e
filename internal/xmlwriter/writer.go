// =============================================================================
// POSLog XML Generator - XML Writer Module
// =============================================================================
//
// This module renders a single Order into a POSLog document. The element
// layout is fixed and element order inside every parent is significant, since
// documents are compared through their canonical form.
//
// XML STRUCTURE:
//
//   <POSLog>
//     <Transaction>
//       <TransactionHeader>
//         <RetailStoreID>1001</RetailStoreID>
//         <WorkstationID>POS001</WorkstationID>
//         <OperatorID>12345</OperatorID>
//         <TransactionSequenceID>56789</TransactionSequenceID>
//         <BusinessDayDate>2025-03-18</BusinessDayDate>
//         <BeginDateTime>2025-03-18T10:15:30</BeginDateTime>
//       </TransactionHeader>
//       <RetailTransaction>
//         <LineItem>                        <!-- one per basket item -->
//           <Sale>
//             <ItemID>SKU123456</ItemID>
//             <Description>Wireless Mouse</Description>
//             <Quantity>1</Quantity>
//             <RegularSalesUnitPrice>25.99</RegularSalesUnitPrice>
//             <ExtendedAmount>25.99</ExtendedAmount>
//           </Sale>
//         </LineItem>
//       </RetailTransaction>
//       <Payment>
//         <Tender>
//           <TenderType>CreditCard</TenderType>
//           <Amount>115.98</Amount>
//         </Tender>
//       </Payment>
//       <TransactionTrailer>
//         <Total>
//           <Amount>115.98</Amount>
//         </Total>
//       </TransactionTrailer>
//     </Transaction>
//   </POSLog>
//
// No attributes and no namespaces are used; all data is element text.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/poslog-xml/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// TenderTypeCreditCard is the only tender the generator emits.
const TenderTypeCreditCard = "CreditCard"

// Layouts for the header date fields.
const (
	BusinessDayDateLayout = "2006-01-02"
	BeginDateTimeLayout   = "2006-01-02T15:04:05"
)

// moneyPlaces is the number of decimal places for monetary values.
const moneyPlaces = 2

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for one level of indentation.
	// Empty produces a compact single-line document.
	// Default: ""
	Indent string

	// IncludeXMLDeclaration prepends <?xml version="1.0" encoding="UTF-8"?>.
	// Default: false
	IncludeXMLDeclaration bool
}

// DefaultGenerateOptions returns compact output without a declaration.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "",
		IncludeXMLDeclaration: false,
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders the order as a compact POSLog document.
func Generate(order model.Order) ([]byte, error) {
	return GenerateWithOptions(order, DefaultGenerateOptions())
}

// GenerateWithOptions renders the order as a POSLog document.
//
// PARAMETERS:
//   - order: The transaction to render.
//   - options: Formatting options. They never change the canonical form.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if the store timezone cannot be resolved.
//
// GENERATION PROCESS:
//  1. Build the element tree (header, line items, payment, trailer)
//  2. Write the optional XML declaration
//  3. Write the tree, escaping all text content
func GenerateWithOptions(order model.Order, options GenerateOptions) ([]byte, error) {
	doc, err := buildDocument(order)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
		buffer.WriteString("\n")
	}

	if err := writeElement(&buffer, doc, options.Indent, 0); err != nil {
		return nil, errors.Wrap(err, "write XML")
	}

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
// An element carries either a text Value or Children, never both.
type XMLElement struct {
	XMLName  xml.Name
	Value    string
	Children []XMLElement
}

// buildDocument constructs the POSLog element tree for an order.
func buildDocument(order model.Order) (XMLElement, error) {
	header, err := buildHeaderElement(order)
	if err != nil {
		return XMLElement{}, err
	}

	total := FormatAmount(order.Basket.Total())

	transaction := createParentElement("Transaction",
		header,
		buildRetailTransactionElement(order.Basket),
		createParentElement("Payment",
			createParentElement("Tender",
				createSimpleElement("TenderType", TenderTypeCreditCard),
				createSimpleElement("Amount", total),
			),
		),
		createParentElement("TransactionTrailer",
			createParentElement("Total",
				createSimpleElement("Amount", total),
			),
		),
	)

	return createParentElement("POSLog", transaction), nil
}

// buildHeaderElement constructs the TransactionHeader element.
//
// The begin time is rendered in the store timezone; BusinessDayDate is the
// calendar date of that local time.
func buildHeaderElement(order model.Order) (XMLElement, error) {
	loc, err := order.Store.Location()
	if err != nil {
		return XMLElement{}, errors.Wrapf(err, "resolve store timezone %q", order.Store.Timezone)
	}

	begin := order.Header.BeginDateTime.In(loc)

	return createParentElement("TransactionHeader",
		createSimpleElement("RetailStoreID", order.Store.RetailerStoreID),
		createSimpleElement("WorkstationID", order.Store.WorkstationID),
		createSimpleElement("OperatorID", order.Header.OperatorID),
		createSimpleElement("TransactionSequenceID", order.Header.TransactionSequenceID),
		createSimpleElement("BusinessDayDate", begin.Format(BusinessDayDateLayout)),
		createSimpleElement("BeginDateTime", begin.Format(BeginDateTimeLayout)),
	), nil
}

// buildRetailTransactionElement emits one LineItem per basket item, in
// basket order.
func buildRetailTransactionElement(basket model.Basket) XMLElement {
	element := XMLElement{XMLName: xml.Name{Local: "RetailTransaction"}}

	for _, item := range basket.Items {
		sale := createParentElement("Sale",
			createSimpleElement("ItemID", item.ProductIdentifier),
			createSimpleElement("Description", item.ItemName),
			createSimpleElement("Quantity", strconv.Itoa(item.ItemQuantity)),
			createSimpleElement("RegularSalesUnitPrice", FormatAmount(item.Price)),
			createSimpleElement("ExtendedAmount", FormatAmount(item.ExtendedAmount())),
		)
		element.Children = append(element.Children, createParentElement("LineItem", sale))
	}

	return element
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// FormatAmount renders a monetary value with exactly two decimal places,
// rounding half away from zero.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(moneyPlaces)
}

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// createParentElement creates an element holding the given children in order.
func createParentElement(name string, children ...XMLElement) XMLElement {
	return XMLElement{
		XMLName:  xml.Name{Local: name},
		Children: children,
	}
}

// writeElement writes an element and its subtree to the buffer. With an
// empty indent nothing but markup and text is written.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) error {
	writeIndent(buffer, indent, level)

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>")
		writeNewline(buffer, indent)
		return nil
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		if err := xml.EscapeText(buffer, []byte(element.Value)); err != nil {
			return err
		}
	} else {
		writeNewline(buffer, indent)
		for _, child := range element.Children {
			if err := writeElement(buffer, child, indent, level+1); err != nil {
				return err
			}
		}
		writeIndent(buffer, indent, level)
	}

	fmt.Fprintf(buffer, "</%s>", element.XMLName.Local)
	writeNewline(buffer, indent)

	return nil
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	if indent == "" {
		return
	}
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}

func writeNewline(buffer *bytes.Buffer, indent string) {
	if indent != "" {
		buffer.WriteString("\n")
	}
}
