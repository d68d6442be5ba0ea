// Package xbrl parses EDINET XBRL instance documents and resolves their
// namespaces, contexts, and facts into normalized numeric values.
//
// Fact elements are dynamically named (jppfs_cor:CurrentAssets and the like,
// with taxonomy URIs versioned by filing year), so the parser walks the
// token stream instead of unmarshalling into a fixed schema.
package xbrl

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// Context is one XBRL context declaration. Only the fields the date
// resolver needs are retained: the instant date for balance-sheet contexts
// and the period end date for income/cash-flow contexts.
type Context struct {
	ID      string
	Instant string
	EndDate string
}

// Fact is a raw harvested fact: a dynamically named element carrying a
// contextRef attribute. Namespace is the fully qualified URI.
type Fact struct {
	Namespace  string
	Local      string
	ContextRef string
	Value      string
}

// Document is a parsed XBRL instance document.
type Document struct {
	// RootNamespaces maps every prefix declared on the root element to its
	// URI. Taxonomy filtering happens later in ResolveNamespaces.
	RootNamespaces map[string]string
	Contexts       []Context
	Facts          []Fact
}

// xmlContext mirrors an xbrli:context element for decoding.
type xmlContext struct {
	ID     string `xml:"id,attr"`
	Period struct {
		Instant   string `xml:"instant"`
		StartDate string `xml:"startDate"`
		EndDate   string `xml:"endDate"`
	} `xml:"period"`
}

// ParseFile parses the XBRL instance document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "xbrl: open instance document")
	}
	defer f.Close() //nolint:errcheck

	return Parse(f)
}

// Parse parses an XBRL instance document from r.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "xbrl: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	doc := &Document{RootNamespaces: make(map[string]string)}
	seenRoot := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "xbrl: read token")
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !seenRoot {
			seenRoot = true
			for _, attr := range se.Attr {
				if attr.Name.Space == "xmlns" {
					doc.RootNamespaces[attr.Name.Local] = attr.Value
				}
			}
			continue
		}

		if se.Name.Local == "context" {
			var ctx xmlContext
			if err := decoder.DecodeElement(&ctx, &se); err != nil {
				return nil, eris.Wrap(err, "xbrl: decode context")
			}
			doc.Contexts = append(doc.Contexts, Context{
				ID:      ctx.ID,
				Instant: ctx.Period.Instant,
				EndDate: ctx.Period.EndDate,
			})
			continue
		}

		contextRef := attrValue(se.Attr, "contextRef")
		if contextRef == "" {
			continue
		}

		var value string
		if err := decoder.DecodeElement(&value, &se); err != nil {
			// Mixed-content facts (HTML blocks) are not numeric data;
			// skip the element rather than failing the filing.
			continue
		}

		doc.Facts = append(doc.Facts, Fact{
			Namespace:  se.Name.Space,
			Local:      se.Name.Local,
			ContextRef: contextRef,
			Value:      value,
		})
	}

	if !seenRoot {
		return nil, eris.New("xbrl: empty document")
	}

	return doc, nil
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
