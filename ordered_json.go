// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import (
	"encoding/json"
	"fmt"
)

// orderedField is one key/value pair of a decoded JSON object, carrying the
// position it occupied in the source document.
type orderedField struct {
	key   string
	value interface{}
}

// orderedObject is a decoded JSON object that preserves source key order.
// It stands in for map[string]interface{} everywhere this package decodes
// or reconstructs a document: a Go map's range order is unspecified by the
// language spec, so building through map[string]interface{} cannot honor
// §8 property 1's "order of object keys preserved" - nlohmann::json's own
// streaming sax_parse (the original this builder is grounded on) fires its
// key events in document order for the same reason.
type orderedObject []orderedField

// decodeOrderedJSON decodes one JSON value from dec the same way
// encoding/json's generic interface{} decoding does - nil, bool,
// json.Number, string, []interface{} - except objects decode to
// *orderedObject instead of map[string]interface{}, using the decoder's
// token stream so key order survives into the decoded value.
func decodeOrderedJSON(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeOrderedValue(dec, tok)
}

func decodeOrderedValue(dec *json.Decoder, tok json.Token) (interface{}, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := orderedObject{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("%w: object key is not a string", ErrMalformedInput)
				}
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeOrderedValue(dec, valTok)
				if err != nil {
					return nil, err
				}
				obj = append(obj, orderedField{key: key, value: val})
			}
			if _, err := dec.Token(); err != nil { // consume the closing '}'
				return nil, err
			}
			return &obj, nil
		case '[':
			var arr []interface{}
			for dec.More() {
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeOrderedValue(dec, valTok)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume the closing ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("%w: unexpected json delimiter %v", ErrMalformedInput, t)
		}
	case nil, bool, json.Number, string:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unexpected json token %v", ErrMalformedInput, t)
	}
}
