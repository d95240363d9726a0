package formatter

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// JSONFormatter renders the report as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format renders the report to stdout.
func (f *JSONFormatter) Format(report *Report) error {
	data, err := sonic.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
