package canonical

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/pmezard/go-difflib/difflib"
)

// diffElements returns a unified diff between the element paths of two
// trees. An empty string means both trees flatten to the same lines.
func diffElements(reference, generated *etree.Element) string {
	diff := difflib.UnifiedDiff{
		A:        Flatten(reference),
		B:        Flatten(generated),
		FromFile: "expected",
		ToFile:   "generated",
		Context:  2,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		// Writing to a strings.Builder does not fail.
		return err.Error()
	}
	return text
}

// Flatten renders an element tree as one line per leaf element and
// attribute, for example
//
//	POSLog/Transaction/RetailTransaction/LineItem[2]/Sale/ItemID = SKU654321
//
// Sibling elements sharing a tag are numbered from 1.
func Flatten(root *etree.Element) []string {
	var lines []string
	flattenInto(&lines, root, root.FullTag())
	return lines
}

func flattenInto(lines *[]string, el *etree.Element, path string) {
	attrs := make([]string, 0, len(el.Attr))
	for _, attr := range el.Attr {
		attrs = append(attrs, fmt.Sprintf("%s/@%s = %s\n", path, attr.FullKey(), attr.Value))
	}
	sort.Strings(attrs)
	*lines = append(*lines, attrs...)

	children := el.ChildElements()
	if len(children) == 0 {
		*lines = append(*lines, fmt.Sprintf("%s = %s\n", path, strings.TrimSpace(el.Text())))
		return
	}

	counts := make(map[string]int, len(children))
	for _, child := range children {
		counts[child.FullTag()]++
	}

	seen := make(map[string]int, len(children))
	for _, child := range children {
		tag := child.FullTag()
		seen[tag]++

		childPath := path + "/" + tag
		if counts[tag] > 1 {
			childPath = fmt.Sprintf("%s[%d]", childPath, seen[tag])
		}
		flattenInto(lines, child, childPath)
	}
}
