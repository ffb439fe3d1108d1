package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// StructToCsvHeader takes a struct type and returns a slice of strings representing the CSV header.
// It uses the `csv` tag on struct fields to determine the header name.
// Fields tagged `csv:"-"` are skipped; untagged fields use the field name.
func StructToCsvHeader(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var headers []string
	for i := 0; i < t.NumField(); i++ {
		if name, ok := csvName(t.Field(i)); ok {
			headers = append(headers, name)
		}
	}
	return headers
}

// WriteCsv writes a header row followed by one row per item. Slice fields
// are joined with a semicolon.
func WriteCsv[T any](w io.Writer, data []T) error {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || (t.Kind() != reflect.Struct && !(t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct)) {
		return fmt.Errorf("data must be a slice of structs")
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(StructToCsvHeader(t)); err != nil {
		return errors.Wrap(err, "error writing CSV header")
	}

	for _, item := range data {
		v := reflect.ValueOf(item)
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}

		var row []string
		for i := 0; i < v.NumField(); i++ {
			if _, ok := csvName(v.Type().Field(i)); !ok {
				continue
			}
			row = append(row, csvValue(v.Field(i)))
		}

		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "error writing CSV row")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "error flushing CSV")
}

// WriteToCsvFile writes data to a CSV file at filePath, creating or truncating it
func WriteToCsvFile[T any](filePath string, data []T) error {
	file, err := os.Create(filePath)
	if err != nil {
		return errors.Wrap(err, "error creating CSV file")
	}

	if err := WriteCsv(file, data); err != nil {
		file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "error closing CSV file")
}

func csvName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("csv")
	switch tag {
	case "-":
		return "", false
	case "":
		return field.Name, true
	default:
		return tag, true
	}
}

func csvValue(v reflect.Value) string {
	if v.Kind() != reflect.Slice {
		return fmt.Sprintf("%v", v.Interface())
	}

	values := make([]string, v.Len())
	for j := 0; j < v.Len(); j++ {
		values[j] = fmt.Sprintf("%v", v.Index(j).Interface())
	}
	return strings.Join(values, ";")
}
