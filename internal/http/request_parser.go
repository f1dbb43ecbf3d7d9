package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/form"
)

const maxBodyBytes = 64 << 10

// ParseWindowParam reads ?window=, falling back to the default window.
func ParseWindowParam(query url.Values) core.Window {
	return core.ParseWindow(strings.TrimSpace(query.Get("window")))
}

// FormValues extracts the entry form fields from submitted values.
func FormValues(v url.Values) form.Values {
	return form.Values{
		Amount:      sanitizeInput(v.Get(form.FieldAmount)),
		Category:    sanitizeInput(v.Get(form.FieldCategory)),
		Description: sanitizeInput(v.Get(form.FieldDescription)),
		Date:        sanitizeInput(v.Get(form.FieldDate)),
	}
}

// bodyFields holds the sanitized top-level fields of a JSON or
// form-encoded request body. A key present with an empty value is kept, so
// callers can tell "clear this" from "leave it alone".
type bodyFields map[string]string

// decodeBody reads up to maxBodyBytes and flattens the body into fields.
// Bodies that declare a JSON content type, or start with '{', are read as
// a JSON object; anything else is parsed as a query string.
func decodeBody(w http.ResponseWriter, r *http.Request) (bodyFields, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	fields := bodyFields{}
	if len(raw) == 0 {
		return fields, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" || raw[0] == '{' {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		for k, v := range obj {
			fields[k] = sanitizeInput(scalarString(v))
		}
		return fields, nil
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode form body: %w", err)
	}
	for k := range values {
		fields[k] = sanitizeInput(values.Get(k))
	}
	return fields, nil
}

func (f bodyFields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// FormValues maps the body onto the entry form.
func (f bodyFields) FormValues() form.Values {
	return form.Values{
		Amount:      f[form.FieldAmount],
		Category:    f[form.FieldCategory],
		Description: f[form.FieldDescription],
		Date:        f[form.FieldDate],
	}
}

// scalarString renders JSON scalars as their text form; objects, arrays
// and null become empty.
func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
