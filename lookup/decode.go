package lookup

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Decode extracts the product id from an API response body.
// A well-formed body without an id yields 0 and no error; only an
// unparseable body is an ErrDecode.
func Decode(body []byte, rt ResponseType) (int, error) {
	switch rt {
	case ResponseXML:
		return decodeXML(body)
	case ResponseJSON, "":
		return decodeJSON(body)
	default:
		return 0, fmt.Errorf("%w: wrong response type: %q", ErrInvalidArgument, rt)
	}
}

// decodeJSON reads the id of the first product in
//
//	[{"id":11638,"name":"Sony Cyber-shot DSC-RX10 IV","vendor":{...},...}]
//
// For a top-level object the first property's value plays the role of the
// first element, so {"a":{"id":5}} yields 5 and {"id":5} yields 0.
func decodeJSON(body []byte) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("%w: bad response json data: %v", ErrDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: bad response json data: trailing data", ErrDecode)
	}
	if v == nil {
		return 0, fmt.Errorf("%w: bad response json data: null", ErrDecode)
	}

	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return 0, nil
		}
		return jsonID(t[0]), nil
	case map[string]any:
		if len(t) == 0 {
			return 0, nil
		}
		first, err := firstProperty(body)
		if err != nil {
			return 0, fmt.Errorf("%w: bad response json data: %v", ErrDecode, err)
		}
		return jsonID(first), nil
	default:
		return 0, nil
	}
}

// firstProperty returns the value of the first key of a JSON object in
// document order, which a map cannot preserve.
func firstProperty(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // {
		return nil, err
	}
	if _, err := dec.Token(); err != nil { // first key
		return nil, err
	}
	var first any
	if err := dec.Decode(&first); err != nil {
		return nil, err
	}
	return first, nil
}

func jsonID(v any) int {
	product, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	switch id := product["id"].(type) {
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return nonNegative(n)
		}
		if f, err := id.Float64(); err == nil {
			return nonNegative(int64(f))
		}
	case string:
		return parseID(id)
	}
	return 0
}

type xmlProducts struct {
	Products []xmlProduct `xml:"Product"`
}

type xmlProduct struct {
	ID string `xml:"Id"`
}

// decodeXML reads Product/Id from
//
//	<Products><Product><Category>...</Category><Id>7519</Id>...</Product></Products>
//
// Only whitespace, comments and processing instructions may follow the root.
func decodeXML(body []byte) (int, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var p xmlProducts
	if err := dec.Decode(&p); err != nil {
		return 0, fmt.Errorf("%w: bad response xml data: %v", ErrDecode, err)
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: bad response xml data: %v", ErrDecode, err)
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return 0, fmt.Errorf("%w: bad response xml data: trailing data", ErrDecode)
			}
		default:
			return 0, fmt.Errorf("%w: bad response xml data: trailing data", ErrDecode)
		}
	}

	if len(p.Products) == 0 {
		return 0, nil
	}
	return parseID(p.Products[0].ID), nil
}

func parseID(s string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return nonNegative(n)
}

func nonNegative(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}
