package cli

import (
	"github.com/morikuni/failure/v2"
	"github.com/spf13/pflag"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type outputFormatFlag struct {
	Value string
}

// String implements pflag.Value.
func (f *outputFormatFlag) String() string {
	if f.Value == "" {
		return outputText
	}
	return f.Value
}

func (f *outputFormatFlag) Set(value string) error {
	switch value {
	case outputText, outputJSON:
		f.Value = value
		return nil
	default:
		return failure.New(InvalidOutputFormat,
			failure.Message("Output format must be text or json"),
			failure.Context{"output": value},
		)
	}
}

func (f *outputFormatFlag) Type() string {
	return "format"
}

var _ pflag.Value = &outputFormatFlag{}
