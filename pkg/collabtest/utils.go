package collabtest

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/devsphere/engagement/pkg/structs"
)

var validate = validator.New()

var (
	errUnauthorized = errors.New("unauthorized")
	errNotFound     = errors.New("not_found")
	errBadRequest   = errors.New("bad_request")
	errInternal     = errors.New("internal")
)

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	// Decode body
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		returnErr(w, http.StatusBadRequest, errBadRequest, nil)
		return false
	}

	// Get struct type
	structType := reflect.TypeOf(v)
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}

	// Validate
	if err := validate.Struct(v); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			returnErr(w, http.StatusBadRequest, errBadRequest, nil)
			return false
		}
		errFields := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			field, _ := structType.FieldByName(fieldErr.StructField())
			errFields[field.Tag.Get("json")] = fieldErr.Error()
		}
		returnErr(w, http.StatusBadRequest, errBadRequest, errFields)
		return false
	}

	return true
}

func returnData(w http.ResponseWriter, code int, data interface{}) {
	marshaled, err := json.Marshal(data)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, errInternal, nil)
	} else {
		w.WriteHeader(code)
		w.Write(marshaled)
	}
}

func returnErr(w http.ResponseWriter, code int, errType error, fields map[string]string) {
	marshaled, err := json.Marshal(structs.ErrResp{
		Error:  true,
		Type:   errType.Error(),
		Fields: fields,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("An error occurred while sending the error response."))
	} else {
		w.WriteHeader(code)
		w.Write(marshaled)
	}
}
