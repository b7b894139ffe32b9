package source

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// DecodeJSON unmarshals body into v. Bodies served through a browser-style
// fetcher arrive as an HTML page with the JSON inside a <pre> element; those
// are unwrapped first. Failures wrap ErrParseFailure.
func DecodeJSON(body []byte, v interface{}) error {
	payload, err := unwrapPre(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: decoding JSON: %v", ErrParseFailure, err)
	}
	return nil
}

// unwrapPre returns the text of the first <pre> element when body is HTML,
// or body unchanged otherwise.
func unwrapPre(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return trimmed, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", ErrParseFailure, err)
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return nil, fmt.Errorf("%w: HTML response has no <pre> payload", ErrParseFailure)
	}
	return []byte(pre.Text()), nil
}
