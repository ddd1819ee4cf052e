// =============================================================================
// POSLog XML Generator - Canonical Comparator
// =============================================================================
//
// This module decides whether two XML documents are equal while ignoring
// formatting that carries no meaning.
//
// ALGORITHM:
//   1. Parse each document strictly. Malformed input is a fatal error.
//   2. Remove whitespace-only text that sits between elements.
//   3. Serialize the root element with Canonical XML 1.0 (no comments):
//      attributes sorted, namespace declarations normalized, empty elements
//      written as start/end tag pairs.
//   4. Compare the two canonical strings byte for byte.
//
// A mismatch is reported as a *MismatchError carrying both canonical strings
// and an element-path diff.
//
// =============================================================================

package canonical

import (
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-faster/errors"
	dsig "github.com/russellhaering/goxmldsig"
	"golang.org/x/net/html/charset"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrMalformed is returned when a document cannot be parsed.
var ErrMalformed = errors.New("malformed XML")

// MismatchError reports two documents whose canonical forms differ.
type MismatchError struct {
	// Generated is the canonical form of the generated document.
	Generated string

	// Expected is the canonical form of the reference document.
	Expected string

	// Diff is a unified diff of the element paths of both documents.
	Diff string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return "canonical XML mismatch:\n" + e.Diff
}

// =============================================================================
// RESULT
// =============================================================================

// Result holds both canonical forms of a comparison.
type Result struct {
	Generated string
	Expected  string
	Equal     bool
}

// =============================================================================
// CANONICALIZATION
// =============================================================================

// Canonicalize returns the C14N 1.0 form of a document with insignificant
// whitespace removed. Canonicalizing a canonical document returns it unchanged.
func Canonicalize(data []byte) (string, error) {
	root, err := parseRoot(data)
	if err != nil {
		return "", err
	}

	return canonicalizeElement(root)
}

func canonicalizeElement(root *etree.Element) (string, error) {
	out, err := dsig.MakeC14N10RecCanonicalizer().Canonicalize(root)
	if err != nil {
		return "", errors.Wrap(err, "canonicalize")
	}
	return string(out), nil
}

// parseRoot parses a document and strips blank text from its root element.
// A document must hold exactly one root element, no text outside of it and
// no prefix without a namespace declaration. Encodings other than UTF-8 are
// converted according to the XML declaration.
func parseRoot(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%v", err)
	}

	if err := checkProlog(doc); err != nil {
		return nil, err
	}

	root := doc.Root()
	if err := checkPrefixes(root); err != nil {
		return nil, err
	}

	stripBlankText(root)
	return root, nil
}

// checkProlog rejects documents without exactly one root element or with
// text outside of it.
func checkProlog(doc *etree.Document) error {
	switch n := len(doc.ChildElements()); n {
	case 0:
		return errors.Wrap(ErrMalformed, "no root element")
	case 1:
	default:
		return errors.Wrapf(ErrMalformed, "%d root elements", n)
	}

	for _, token := range doc.Child {
		if text, ok := token.(*etree.CharData); ok && strings.TrimSpace(text.Data) != "" {
			return errors.Wrapf(ErrMalformed, "text outside of root element: %q", strings.TrimSpace(text.Data))
		}
	}
	return nil
}

// checkPrefixes rejects element and attribute prefixes that are not bound
// to a namespace.
func checkPrefixes(el *etree.Element) error {
	if el.Space != "" && el.NamespaceURI() == "" {
		return errors.Wrapf(ErrMalformed, "undeclared namespace prefix on <%s>", el.FullTag())
	}

	for i := range el.Attr {
		attr := &el.Attr[i]
		switch attr.Space {
		case "", "xml", "xmlns":
			continue
		}
		if attr.NamespaceURI() == "" {
			return errors.Wrapf(ErrMalformed, "undeclared namespace prefix on attribute %s of <%s>", attr.FullKey(), el.FullTag())
		}
	}

	for _, child := range el.ChildElements() {
		if err := checkPrefixes(child); err != nil {
			return err
		}
	}
	return nil
}

// stripBlankText removes whitespace-only character data from every element
// that has child elements. Text of leaf elements is kept as is.
func stripBlankText(el *etree.Element) {
	if len(el.ChildElements()) == 0 {
		return
	}

	var blank []etree.Token
	for _, child := range el.Child {
		switch c := child.(type) {
		case *etree.CharData:
			if strings.TrimSpace(c.Data) == "" {
				blank = append(blank, c)
			}
		case *etree.Element:
			stripBlankText(c)
		}
	}

	for _, token := range blank {
		el.RemoveChild(token)
	}
}

// =============================================================================
// COMPARISON
// =============================================================================

// Compare canonicalizes both documents and compares them.
//
// PARAMETERS:
//   - generated: The document under test.
//   - reference: The expected document.
//
// RETURNS:
//   - A Result with both canonical forms, also on mismatch.
//   - ErrMalformed (wrapped) if either document cannot be parsed.
//   - A *MismatchError if the canonical forms differ.
func Compare(generated, reference []byte) (*Result, error) {
	genRoot, err := parseRoot(generated)
	if err != nil {
		return nil, errors.Wrap(err, "parse generated document")
	}
	refRoot, err := parseRoot(reference)
	if err != nil {
		return nil, errors.Wrap(err, "parse reference document")
	}

	result := &Result{}
	if result.Generated, err = canonicalizeElement(genRoot); err != nil {
		return nil, err
	}
	if result.Expected, err = canonicalizeElement(refRoot); err != nil {
		return nil, err
	}

	result.Equal = result.Generated == result.Expected
	if result.Equal {
		return result, nil
	}

	return result, &MismatchError{
		Generated: result.Generated,
		Expected:  result.Expected,
		Diff:      diffElements(refRoot, genRoot),
	}
}

// CompareFile compares a generated document against a reference file read
// from disk. A missing reference file is returned as an I/O error before any
// parsing takes place.
func CompareFile(generated []byte, referencePath string) (*Result, error) {
	reference, err := os.ReadFile(referencePath)
	if err != nil {
		return nil, errors.Wrap(err, "read reference")
	}

	return Compare(generated, reference)
}
