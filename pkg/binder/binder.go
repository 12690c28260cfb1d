package binder

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/orderof/catalog/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder is a custom struct that implements the Echo Binder interface. It binds
// to a struct, uses mold to clean up the params, and validator to validate
// them.
type Binder struct {
	queryDecoder *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
}

// New initializes a new Binder instance with the appropriate validation
// functions registered.
func New() (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	conform := modifiers.New()
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("query")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation(date, dateValidator); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validate.RegisterValidation(httpURL, httpURLValidator); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Binder{queryDecoder, conform, validate}, nil
}

// Bind binds, modifies, and validates payloads against the given struct. JSON
// bodies are accepted for writes and query strings for reads.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()

	if req.ContentLength > 0 {
		if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
			return errcodes.UnsupportedMediaType()
		}
		if err := b.decodeJSON(i, c); err != nil {
			return err
		}
	} else if req.Method == http.MethodGet || req.Method == http.MethodDelete {
		if err := b.decodeQuery(i, c.QueryParams()); err != nil {
			return err
		}
	} else {
		disallowEmptyBody := true
		if disallow, ok := c.Get("disallow_empty_body").(bool); ok {
			disallowEmptyBody = disallow
		}
		if disallowEmptyBody {
			return errcodes.EmptyRequestBody()
		}
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return errors.WithStack(err)
		}
		return errcodes.ValidationError(formatValidationError(errs[0]))
	}
	return nil
}

func (b *Binder) decodeJSON(i interface{}, c echo.Context) error {
	req := c.Request()
	defer req.Body.Close()

	dec := json.NewDecoder(req.Body)
	disallowUnknownFields := true
	if disallow, ok := c.Get("disallow_unknown_fields").(bool); ok {
		disallowUnknownFields = disallow
	}
	if disallowUnknownFields {
		dec.DisallowUnknownFields()
	}

	err := dec.Decode(i)
	if err == nil {
		return nil
	}

	if matches := unknownFieldsRE.FindStringSubmatch(err.Error()); len(matches) > 1 {
		return errcodes.UnknownParameter(matches[1])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errcodes.ValidationTypeError(formatUnmarshalTypeError(typeErr))
	}

	logger.FromEchoContext(c).Err(err).Warn("unknown json decode error")
	return errcodes.MalformedPayload()
}

func (b *Binder) decodeQuery(i interface{}, params url.Values) error {
	err := b.queryDecoder.Decode(i, params)
	if err == nil {
		return nil
	}

	var errs schema.MultiError
	if !errors.As(err, &errs) {
		return errors.WithStack(err)
	}
	for _, err := range errs {
		var convErr schema.ConversionError
		if errors.As(err, &convErr) {
			return errcodes.ValidationTypeError(formatSchemaConversionError(convErr))
		}
		var keyErr schema.UnknownKeyError
		if errors.As(err, &keyErr) {
			return errcodes.UnknownParameter(keyErr.Key)
		}
		return errors.WithStack(err)
	}
	return nil
}
