package common

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"time"
	"unicode/utf8"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/govern/lib/errors"
)

// The stdout is left to the command output.
var (
	DefaultLogLevel   logging.Lvl     = logging.LvlInfo
	DefaultLogHandler logging.Handler = logging.StreamHandler(os.Stderr, logging.TerminalFormat())
)

const errorKey = "LOG15_ERROR"

func formatJSONValue(value interface{}) (result interface{}) {
	defer func() {
		if err := recover(); err != nil {
			if v := reflect.ValueOf(value); v.Kind() == reflect.Ptr && v.IsNil() {
				result = "nil"
			} else {
				panic(err)
			}
		}
	}()

	switch v := value.(type) {
	case json.Marshaler, *errors.Error:
		return v
	case time.Time:
		return FormatISO8601(v)
	case []byte:
		// payloads are mostly text; the others are left to json, base64
		if utf8.Valid(v) {
			return string(v)
		}
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

// JSONFormat formats a record as a JSON object in a line. The context
// values are formatted by `formatJSONValue`, so the coded errors keep
// their code and data.
func JSONFormat() logging.Format {
	return logging.FormatFunc(func(r *logging.Record) []byte {
		props := map[string]interface{}{
			r.KeyNames.Time: FormatISO8601(r.Time),
			r.KeyNames.Lvl:  r.Lvl.String(),
			r.KeyNames.Msg:  r.Msg,
		}

		for i := 0; i+1 < len(r.Ctx); i += 2 {
			k, ok := r.Ctx[i].(string)
			if !ok {
				props[errorKey] = fmt.Sprintf("%+v is not a string key", r.Ctx[i])
				continue
			}
			props[k] = formatJSONValue(r.Ctx[i+1])
		}

		b, err := json.Marshal(props)
		if err != nil {
			b, _ = json.Marshal(map[string]string{errorKey: err.Error()})
		}

		return append(b, '\n')
	})
}
