package outputters

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/internal/jq"
)

const defaultJSONOutfile = "out.json"

// ReportJSONOutputter collects everything the chain emits and writes it as
// one JSON document at completion. An optional jq expression reshapes the
// output before it is written.
type ReportJSONOutputter struct {
	*chain.BaseOutputter
	output   []any
	outfile  string
	indent   int
	jqFilter string
}

func NewReportJSONOutputter(configs ...cfg.Config) chain.Outputter {
	j := &ReportJSONOutputter{}
	j.BaseOutputter = chain.NewBaseOutputter(j, configs...)
	return j
}

func (j *ReportJSONOutputter) Initialize() error {
	outfile, err := cfg.As[string](j.Arg("jsonoutfile"))
	if err != nil || outfile == "" {
		outfile = defaultJSONOutfile
	}
	j.outfile = outfile

	indent, err := cfg.As[int](j.Arg("indent"))
	if err != nil {
		indent = 2
	}
	j.indent = indent

	j.jqFilter, _ = cfg.As[string](j.Arg("jq"))
	return nil
}

func (j *ReportJSONOutputter) Output(val any) error {
	j.output = append(j.output, val)
	return nil
}

func (j *ReportJSONOutputter) Complete() error {
	var doc any = j.output
	if j.jqFilter != "" {
		results, err := jq.Apply(j.jqFilter, j.output)
		if err != nil {
			return err
		}
		doc = results
	}

	slog.Debug("writing JSON output", "filename", j.outfile, "entries", len(j.output))

	writer, err := os.Create(j.outfile)
	if err != nil {
		return fmt.Errorf("creating JSON file %s: %w", j.outfile, err)
	}
	defer writer.Close()

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", strings.Repeat(" ", j.indent))
	return encoder.Encode(doc)
}

func (j *ReportJSONOutputter) Params() []cfg.Param {
	return []cfg.Param{
		cfg.NewParam[string]("jsonoutfile", "the file to write the JSON report to").WithDefault(defaultJSONOutfile),
		cfg.NewParam[int]("indent", "the number of spaces to use for JSON indentation").WithDefault(2),
		cfg.NewParam[string]("jq", "jq expression applied to the report before writing"),
	}
}
