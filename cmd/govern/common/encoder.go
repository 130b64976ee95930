package common

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Encoder func(w io.Writer, v interface{}) error

// Encoders are the output formats of `--format`.
var Encoders = map[string]Encoder{
	"json":       jsonEncoder(""),
	"prettyjson": jsonEncoder("  "),
	"yaml":       yamlEncode,
}

// Encode writes v in the format. The payloads and titles are printed as
// they are, without the HTML escaping of encoding/json.
func Encode(format string, w io.Writer, v interface{}) error {
	encode, found := Encoders[format]
	if !found {
		return errors.Errorf("unknown format, %q", format)
	}

	return encode(w, v)
}

func jsonEncoder(indent string) Encoder {
	return func(w io.Writer, v interface{}) error {
		e := json.NewEncoder(w)
		e.SetEscapeHTML(false)
		e.SetIndent("", indent)

		return e.Encode(v)
	}
}

func yamlEncode(w io.Writer, v interface{}) error {
	e := yaml.NewEncoder(w)
	if err := e.Encode(v); err != nil {
		return err
	}

	return e.Close()
}
